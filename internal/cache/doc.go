// Package cache provides a generic thread-safe LRU cache.
//
// rampmap keeps built ramp images in a Cache so that preparing the same
// stops again, for example after a resize, skips the gradient rebuild:
//
//	c := cache.New[string, *image.RGBA](32)
//	img, err := c.GetOrCreate(key, build)
//
// Cache must not be copied after creation (it contains a mutex).
package cache
