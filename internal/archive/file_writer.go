package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/justapithecus/lode/lode"
)

// FileWriter writes sidecar files to Lode storage. Files land at
// Hive-partitioned paths under files/, bypassing dataset segment/manifest
// machinery entirely — used for the final aggregate report, which is one
// document rather than an append-only record stream.
type FileWriter interface {
	// PutFile writes a file to the Hive-partitioned files/ prefix. The
	// filename must not contain path separators or "..".
	PutFile(ctx context.Context, filename, contentType string, data []byte) error
}

var _ FileWriter = (*LodeClient)(nil)

// PutFile writes a sidecar file to Lode storage at the computed Hive path,
// along with a companion .meta.json preserving content type.
func (c *LodeClient) PutFile(ctx context.Context, filename, contentType string, data []byte) error {
	store, err := c.getOrCreateStore()
	if err != nil {
		return fmt.Errorf("file write store init failed: %w", err)
	}

	path := c.buildFilePath(filename)
	if err := store.Put(ctx, path, bytes.NewReader(data)); err != nil {
		return err
	}

	meta, err := json.Marshal(fileMetadata{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("file write metadata marshal failed: %w", err)
	}
	metaPath := path + ".meta.json"
	return store.Put(ctx, metaPath, bytes.NewReader(meta))
}

type fileMetadata struct {
	ContentType string `json:"content_type"`
}

func (c *LodeClient) getOrCreateStore() (lode.Store, error) {
	c.storeOnce.Do(func() {
		c.store, c.storeErr = c.storeFact()
	})
	return c.store, c.storeErr
}

// buildFilePath computes the Hive-partitioned path for a sidecar file.
// Format: datasets/<dataset>/partitions/experiment=<e>/config_hash=<h>/day=<d>/files/<filename>
func (c *LodeClient) buildFilePath(filename string) string {
	return fmt.Sprintf("datasets/%s/partitions/experiment=%s/config_hash=%s/day=%s/files/%s",
		c.config.Dataset,
		c.config.Experiment,
		c.config.ConfigHash,
		c.config.Day,
		filename,
	)
}

// StubFileWriter records PutFile calls for testing.
type StubFileWriter struct {
	Files []StubFileRecord
}

// StubFileRecord is a recorded file write for testing.
type StubFileRecord struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewStubFileWriter creates a new stub file writer.
func NewStubFileWriter() *StubFileWriter {
	return &StubFileWriter{}
}

// PutFile implements FileWriter by recording the call.
func (w *StubFileWriter) PutFile(_ context.Context, filename, contentType string, data []byte) error {
	w.Files = append(w.Files, StubFileRecord{Filename: filename, ContentType: contentType, Data: data})
	return nil
}

var _ FileWriter = (*StubFileWriter)(nil)
