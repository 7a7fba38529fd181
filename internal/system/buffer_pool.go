package system

import (
	"image"
	"image/draw"
	"sync"
)

// ImagePool переиспользует *image.RGBA одного размера между кадрами
// превью, чтобы не нагружать GC.
type ImagePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

// NewImagePool создаёт пустой пул.
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[string]*sync.Pool)}
}

var globalPool = NewImagePool()

// SharedImagePool возвращает общий пул процесса.
func SharedImagePool() *ImagePool {
	return globalPool
}

// Get возвращает очищенный холст нужного размера.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Повторная проверка под записью
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	img := pool.Get().(*image.RGBA)
	draw.Draw(img, img.Rect, image.Transparent, image.Point{}, draw.Src)
	return img
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
