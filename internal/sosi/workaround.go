package sosi

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sosi2gpkg/internal/fileutil"
	"sosi2gpkg/internal/services"
)

const (
	charsetDirective = "..TEGNSETT"
	versionDirective = "..SOSI-VERSJON"
	forcedVersion    = "4.5"
)

// WorkaroundOptions controls how the corrected copy is produced.
type WorkaroundOptions struct {
	// ForceVersion rewrites ..SOSI-VERSJON to 4.5.
	ForceVersion bool
	// TargetEncoding is declared in ..TEGNSETT and used to encode the copy.
	// Empty means ISO8859-10.
	TargetEncoding string
	// TempDir is the parent of the per-copy directory. Empty means os.TempDir.
	TempDir string
}

// DefaultWorkaroundOptions mirrors the rewrite that makes most rejected files
// acceptable to ogr2ogr.
func DefaultWorkaroundOptions() WorkaroundOptions {
	return WorkaroundOptions{ForceVersion: true, TargetEncoding: "ISO8859-10"}
}

// Workaround is a rewritten temporary copy of a SOSI file. It owns its
// directory; call Remove once the conversion that reads it has finished.
type Workaround struct {
	Path     string
	Rewrites int
	dir      string
}

// Remove deletes the copy and its directory. Failures are ignored.
func (w *Workaround) Remove() {
	if w == nil {
		return
	}
	fileutil.RemoveAllIfExists(w.dir)
}

// MakeWorkaroundCopy writes a copy of src whose encoding declaration (and
// optionally format version) is rewritten, encoded in the target charset.
// Lines that do not start with a rewritten directive are passed through
// unchanged apart from re-encoding.
func MakeWorkaroundCopy(src string, opts WorkaroundOptions) (*Workaround, error) {
	charsetName := opts.TargetEncoding
	if strings.TrimSpace(charsetName) == "" {
		charsetName = DefaultWorkaroundOptions().TargetEncoding
	}
	charset, ok := LookupCharset(charsetName)
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "workaround", "charset", fmt.Sprintf("unsupported encoding %q", charsetName), nil)
	}

	raw, err := os.ReadFile(src)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "workaround", "read", src, err)
	}
	body, rewrites := RewriteHeader(raw, charset.Declared, opts.ForceVersion)

	encoded, err := encodeString(body, charset.Encoding)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "workaround", "encode", charset.Declared, err)
	}

	parent := opts.TempDir
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "workaround", "temp dir", parent, err)
	}
	dir, err := os.MkdirTemp(parent, "sosi2gpkg_")
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "workaround", "temp dir", parent, err)
	}
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(dir, stem+"_workaround.sos")
	if err := os.WriteFile(dst, encoded, 0o644); err != nil {
		fileutil.RemoveAllIfExists(dir)
		return nil, services.Wrap(services.ErrFilesystem, "workaround", "write", dst, err)
	}
	return &Workaround{Path: dst, Rewrites: rewrites, dir: dir}, nil
}

// RewriteHeader applies the directive rewrite to raw file content and
// returns the decoded result with the number of lines replaced.
func RewriteHeader(raw []byte, declaredCharset string, forceVersion bool) (string, int) {
	lines := splitLinesKeepEnds(decodeLossy(trimPreamble(raw)))

	var out bytes.Buffer
	out.Grow(len(raw))
	rewrites := 0
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, charsetDirective):
			out.WriteString(charsetDirective + " " + declaredCharset + "\n")
			rewrites++
		case forceVersion && strings.HasPrefix(line, versionDirective):
			out.WriteString(versionDirective + " " + forcedVersion + "\n")
			rewrites++
		default:
			out.WriteString(line)
		}
	}
	return out.String(), rewrites
}
