package symbols

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed lib/*.kicad_sym
var embedded embed.FS

// Library resolves symbol definitions from a list of search paths, with
// a small embedded fallback library for the common passives, power
// flags and op amps. Resolution results are cached.
type Library struct {
	mu    sync.RWMutex
	paths []string
	cache map[string]*Definition
}

// NewLibrary returns a resolver searching the given directories for
// <name>.kicad_sym files, in order.
func NewLibrary(paths ...string) *Library {
	return &Library{
		paths: paths,
		cache: make(map[string]*Definition),
	}
}

// AddPath appends a search directory.
func (l *Library) AddPath(path string) {
	l.mu.Lock()
	l.paths = append(l.paths, path)
	l.mu.Unlock()
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the process wide resolver. It searches the
// directories named in the KICAD_SYMBOL_DIR environment variable before
// falling back to the embedded library.
func Default() *Library {
	defaultOnce.Do(func() {
		var paths []string
		if env := os.Getenv("KICAD_SYMBOL_DIR"); env != "" {
			paths = filepath.SplitList(env)
		}
		defaultLib = NewLibrary(paths...)
	})
	return defaultLib
}

// Resolve looks up a symbol by its library identifier, e.g. "Device:R".
func (l *Library) Resolve(libID string) (*Definition, error) {
	l.mu.RLock()
	if def, ok := l.cache[libID]; ok {
		l.mu.RUnlock()
		return def, nil
	}
	paths := l.paths
	l.mu.RUnlock()

	libName, symName, ok := strings.Cut(libID, ":")
	if !ok {
		return nil, &LookupError{LibID: libID}
	}

	defs, err := l.loadLib(libName, paths)
	if err != nil {
		return nil, err
	}
	if defs == nil {
		return nil, &LookupError{LibID: libID}
	}
	def, ok := defs[symName]
	if !ok {
		return nil, &LookupError{LibID: libID}
	}

	l.mu.Lock()
	for name, d := range defs {
		l.cache[libName+":"+name] = d
	}
	l.mu.Unlock()
	return def, nil
}

func (l *Library) loadLib(libName string, paths []string) (map[string]*Definition, error) {
	for _, dir := range paths {
		f, err := os.Open(filepath.Join(dir, libName+".kicad_sym"))
		if err != nil {
			continue
		}
		defs, perr := ParseLibrary(f, libName)
		f.Close()
		if perr != nil {
			return nil, perr
		}
		return defs, nil
	}

	f, err := embedded.Open("lib/" + libName + ".kicad_sym")
	if err != nil {
		return nil, nil
	}
	defer f.Close()
	return ParseLibrary(f, libName)
}
