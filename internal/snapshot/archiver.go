package snapshot

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"streamguard/internal/models"
	"streamguard/internal/providers"
	"streamguard/internal/snapshot/interfaces"
	"streamguard/internal/structures"
)

const snapshotFileName = "streamguard.snap.zst"

// Archiver writes zstd-compressed snapshots of the whole document for
// disaster recovery. Snapshots are local-only and independent of the
// key-per-field layout of the live store.
type Archiver struct {
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewArchiver(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *Archiver {
	return &Archiver{dir: conf.Snapshot.Dir, compressor: compressor, logger: logger}
}

func (a *Archiver) path() string {
	return filepath.Join(a.dir, snapshotFileName)
}

func (a *Archiver) Save(doc *models.AppDocument) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	data, err := a.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return err
	}

	tmpFile := a.path() + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, a.path())
}

// Load returns the last snapshot, or nil when none exists.
func (a *Archiver) Load() (*models.AppDocument, error) {
	data, err := os.ReadFile(a.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressed, err := a.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	var doc models.AppDocument
	if err := json.Unmarshal(decompressed, &doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}

func (a *Archiver) Close() {
	a.compressor.Close()
}
