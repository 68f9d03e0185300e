package cmd

import (
	"log/slog"

	"github.com/Aman-CERP/docindex/internal/bridge"
	"github.com/Aman-CERP/docindex/internal/config"
	"github.com/Aman-CERP/docindex/pkg/client"
)

// Backend is the boundary surface the commands drive. It is satisfied by
// the in-process bridge and by a loaded libdocindex.
type Backend interface {
	CreateIndex(path, schemaJSON string) error
	OpenIndex(path string) error
	IndexExists(path string) (bool, error)
	DeleteIndex(path string) error
	OpenWriter(path string) (int64, error)
	AddDocument(h int64, doc string) error
	CommitWriter(h int64) error
	CloseWriter(h int64) error
	Shutdown() error
}

var (
	_ Backend = (*bridge.Bridge)(nil)
	_ Backend = (*client.Library)(nil)
)

// libraryBackend unloads the library after shutting it down.
type libraryBackend struct {
	*client.Library
}

func (l libraryBackend) Shutdown() error {
	err := l.Library.Shutdown()
	if cerr := l.Library.Close(); err == nil {
		err = cerr
	}
	return err
}

// newBackend returns the in-process bridge, or the shared library at
// libPath when one is given.
func newBackend(cfg *config.Config, libPath string, camel bool) (Backend, error) {
	if libPath == "" {
		opts := bridge.OptionsFromConfig(cfg)
		opts.Logger = slog.Default()
		return bridge.New(opts), nil
	}

	var opts []client.Option
	if camel {
		opts = append(opts, client.WithCamelCase())
	}
	lib, err := client.Open(libPath, opts...)
	if err != nil {
		return nil, err
	}
	slog.Debug("library_loaded",
		slog.String("path", lib.Path()),
		slog.Int("abi_version", lib.ABIVersion()))
	return libraryBackend{lib}, nil
}
