package cache

import (
	"context"
	"fmt"
	"strings"
)

// None disables caching in [Open].
const None = "none"

// Open selects a backend from spec:
//
//	"", "none"                     NullCache
//	redis://... , rediss://...     RedisCache
//	mongodb://..., mongodb+srv://  MongoCache
//	anything else                  FileCache rooted at that directory
func Open(ctx context.Context, spec string) (Cache, error) {
	switch {
	case spec == "" || spec == None:
		return NewNullCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		c, err := NewRedisCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		c, err := NewMongoCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.Contains(spec, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, Describe(spec))
	default:
		c, err := NewFileCache(spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Describe returns a log-safe name for the backend selected by spec. URL
// credentials are never included.
func Describe(spec string) string {
	switch {
	case spec == "" || spec == None:
		return None
	case strings.Contains(spec, "://"):
		return spec[:strings.Index(spec, "://")]
	default:
		return "file"
	}
}
