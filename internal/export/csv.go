// Package export persists clustering output for downstream consumers: the
// assignment seed CSV read by the SQL modeling layer, and an optional
// profile workbook.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/brdata/municipio-cli/internal/model"
)

// assignmentHeader is the fixed column order of the seed file.
var assignmentHeader = []string{"ibge_code", "ordered_group_id", "label"}

// WriteAssignments writes the per-municipality assignment seed CSV at path,
// replacing any previous file. The write goes to a temporary file in the
// destination directory followed by a rename, so concurrent readers only ever
// see the old file or the complete new one.
func WriteAssignments(path string, assignments []model.ClusterAssignment) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".seed-*.csv")
	if err != nil {
		return eris.Wrap(err, "export: create temp file")
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(assignmentHeader); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, a := range assignments {
		row := []string{a.IBGECode, strconv.Itoa(a.OrderedGroupID), a.Label}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write row %s", a.IBGECode)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}

	if err := tmp.Sync(); err != nil {
		return eris.Wrap(err, "export: sync temp file")
	}
	// CreateTemp opens the file 0600; the seed must stay readable by the
	// modeling tooling, which may run as another user.
	if err := tmp.Chmod(0o644); err != nil {
		return eris.Wrap(err, "export: set seed permissions")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "export: close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "export: rename into %s", path)
	}
	return nil
}

// ReadAssignments reads an assignment seed CSV back into memory. Raw group
// ids are not part of the export and come back as zero.
func ReadAssignments(path string) ([]model.ClusterAssignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "export: read header")
	}
	if len(header) != len(assignmentHeader) || header[0] != assignmentHeader[0] ||
		header[1] != assignmentHeader[1] || header[2] != assignmentHeader[2] {
		return nil, eris.Errorf("export: unexpected header %v", header)
	}

	var out []model.ClusterAssignment
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "export: read row")
		}
		groupID, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, eris.Wrapf(err, "export: parse group id %q", row[1])
		}
		out = append(out, model.ClusterAssignment{
			IBGECode:       row[0],
			OrderedGroupID: groupID,
			Label:          row[2],
		})
	}
	return out, nil
}
