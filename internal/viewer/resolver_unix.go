//go:build !windows

package viewer

func platformResolver() Resolver {
	return newSearchPathResolver()
}
