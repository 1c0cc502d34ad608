// Package browser implements the hierarchical document browser for a case:
// tree fetch and refresh, expansion state, and the download/delete context
// actions.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"caseflow/doctree"
)

// DocumentAPI is the slice of the backend client the browser needs.
type DocumentAPI interface {
	DocumentTree(ctx context.Context, caseID string) (*doctree.TreeNode, error)
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
}

// Phase is the per-file action state. Transitions:
//
//	idle -> menuOpen -> downloading -> idle
//	idle -> menuOpen -> confirmingDelete -> deleting -> idle  (confirm)
//	idle -> menuOpen -> confirmingDelete -> idle              (cancel)
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMenuOpen
	PhaseDownloading
	PhaseConfirmingDelete
	PhaseDeleting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMenuOpen:
		return "menuOpen"
	case PhaseDownloading:
		return "downloading"
	case PhaseConfirmingDelete:
		return "confirmingDelete"
	case PhaseDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// Browser holds the document-browser state for one case. The tree snapshot
// is replaced wholesale on every refresh and never mutated in place.
type Browser struct {
	api    DocumentAPI
	caseID string
	log    zerolog.Logger

	mu          sync.Mutex
	gen         int
	cancel      context.CancelFunc
	initialized bool
	loading     bool
	loadErr     error
	tree        *doctree.TreeNode
	exp         doctree.Expansion

	phase    Phase
	selected *doctree.FileRecord
	notice   string
}

// New creates a browser for one case. No fetch is issued until Refresh.
func New(api DocumentAPI, caseID string, log zerolog.Logger) *Browser {
	return &Browser{
		api:    api,
		caseID: caseID,
		log:    log.With().Str("component", "browser").Str("case", caseID).Logger(),
		exp:    doctree.NewExpansion(),
	}
}

// Refresh fetches the document tree and replaces all tree state with the
// response. Any fetch still in flight is cancelled first, and a response
// belonging to a superseded fetch is discarded so a stale tree can never
// overwrite a fresher one.
func (b *Browser) Refresh(ctx context.Context) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	if b.cancel != nil {
		b.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.loading = true
	b.mu.Unlock()

	tree, err := b.api.DocumentTree(fctx, b.caseID)
	cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return // superseded
	}
	b.loading = false
	if err != nil {
		b.tree = nil
		b.loadErr = err
		b.log.Error().Err(err).Msg("document tree fetch failed")
		return
	}
	b.tree = tree
	b.loadErr = nil
	b.initialized = true
}

// Loading reports whether a fetch is in flight.
func (b *Browser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Err returns the blocking fetch error, if any. A later successful refresh
// clears it.
func (b *Browser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadErr
}

// Empty reports whether the case has a tree with zero documents. Distinct
// from both the loading and the error state.
func (b *Browser) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree != nil && b.tree.LeafCount() == 0
}

// Rows returns the currently visible rows. Nil while loading, after a failed
// fetch, or before the first refresh: no partial tree is ever shown.
func (b *Browser) Rows() []doctree.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tree == nil || b.loadErr != nil || b.loading {
		return nil
	}
	return doctree.Flatten(b.tree, b.exp)
}

// Toggle flips a directory's expansion state.
func (b *Browser) Toggle(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exp.Toggle(path)
}

// Phase returns the current action state.
func (b *Browser) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Selected returns the file under the open context menu, if any.
func (b *Browser) Selected() *doctree.FileRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Notice returns and clears the last non-blocking action failure message.
func (b *Browser) Notice() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.notice
	b.notice = ""
	return n
}

// OpenMenu opens the context menu on a file.
func (b *Browser) OpenMenu(file *doctree.FileRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase != PhaseIdle {
		return fmt.Errorf("open menu: action already in progress (%s)", b.phase)
	}
	if file == nil {
		return errors.New("open menu: no file selected")
	}
	b.phase = PhaseMenuOpen
	b.selected = file
	return nil
}

// CloseMenu dismisses the context menu without acting.
func (b *Browser) CloseMenu() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase == PhaseMenuOpen {
		b.phase = PhaseIdle
		b.selected = nil
	}
}

// Download fetches the selected file's bytes and writes them under destDir.
// Failure is a non-blocking notice, not a fatal error, and is not retried.
func (b *Browser) Download(ctx context.Context, destDir string) (string, error) {
	b.mu.Lock()
	if b.phase != PhaseMenuOpen || b.selected == nil {
		b.mu.Unlock()
		return "", errors.New("download: no file selected")
	}
	file := b.selected
	b.phase = PhaseDownloading
	b.mu.Unlock()

	dest, err := b.saveAs(ctx, file, destDir)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.phase = PhaseIdle
	b.selected = nil
	if err != nil {
		b.notice = fmt.Sprintf("download of %s failed: %v", file.Name, err)
		b.log.Warn().Err(err).Str("key", file.Key).Msg("download failed")
		return "", err
	}
	return dest, nil
}

func (b *Browser) saveAs(ctx context.Context, file *doctree.FileRecord, destDir string) (string, error) {
	body, err := b.api.DownloadFile(ctx, file.Key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	dest := filepath.Join(destDir, filepath.Base(file.Name))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return dest, nil
}

// RequestDelete asks for confirmation before deleting the selected file.
func (b *Browser) RequestDelete() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase != PhaseMenuOpen || b.selected == nil {
		return errors.New("delete: no file selected")
	}
	b.phase = PhaseConfirmingDelete
	return nil
}

// CancelDelete aborts a pending delete confirmation.
func (b *Browser) CancelDelete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase == PhaseConfirmingDelete {
		b.phase = PhaseIdle
		b.selected = nil
	}
}

// ConfirmDelete deletes the selected file, then re-runs the full tree fetch
// exactly once. The server stays the source of truth: the tree is never
// patched locally.
func (b *Browser) ConfirmDelete(ctx context.Context) error {
	b.mu.Lock()
	if b.phase != PhaseConfirmingDelete || b.selected == nil {
		b.mu.Unlock()
		return errors.New("confirm delete: nothing pending confirmation")
	}
	file := b.selected
	b.phase = PhaseDeleting
	b.mu.Unlock()

	err := b.api.DeleteFile(ctx, file.Key)

	b.mu.Lock()
	b.phase = PhaseIdle
	b.selected = nil
	if err != nil {
		b.notice = fmt.Sprintf("delete of %s failed: %v", file.Name, err)
		b.mu.Unlock()
		b.log.Warn().Err(err).Str("key", file.Key).Msg("delete failed")
		return err
	}
	b.mu.Unlock()

	b.Refresh(ctx)
	return nil
}
