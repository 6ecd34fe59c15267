package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetExportFlags() {
	exportFormat, exportOutput, exportClient, exportTag = "ics", "", "", ""
}

func TestExportCmd_ICSToStdout(t *testing.T) {
	setupLocalModeTestApp(t)
	runCmd(t, seedCmd)
	resetExportFlags()
	exportClient = "1"
	t.Cleanup(resetExportFlags)

	out := runCmd(t, exportCmd)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY")
	assert.Contains(t, out, "Alex Yeoh")
	assert.NotContains(t, out, "Bernice Yu")
}

func TestExportCmd_XLSXRequiresOutput(t *testing.T) {
	setupLocalModeTestApp(t)
	resetExportFlags()
	exportFormat = "xlsx"
	t.Cleanup(resetExportFlags)

	exportCmd.SetContext(context.Background())
	assert.ErrorContains(t, exportCmd.RunE(exportCmd, nil), "requires --output")
}

func TestExportCmd_XLSXFile(t *testing.T) {
	setupLocalModeTestApp(t)
	runCmd(t, seedCmd)
	resetExportFlags()
	exportFormat = "xlsx"
	exportOutput = filepath.Join(t.TempDir(), "out", "clients.xlsx")
	t.Cleanup(resetExportFlags)

	runCmd(t, exportCmd)

	data, err := os.ReadFile(exportOutput)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")
}

func TestExportCmd_VCardByTag(t *testing.T) {
	setupLocalModeTestApp(t)
	runCmd(t, seedCmd)
	resetExportFlags()
	exportFormat = "vcf"
	exportTag = "colleagues"
	t.Cleanup(resetExportFlags)

	out := runCmd(t, exportCmd)
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("BEGIN:VCARD")))
}

func TestExportCmd_UnsupportedFormat(t *testing.T) {
	setupLocalModeTestApp(t)
	resetExportFlags()
	exportFormat = "pdf"
	t.Cleanup(resetExportFlags)

	exportCmd.SetContext(context.Background())
	assert.ErrorContains(t, exportCmd.RunE(exportCmd, nil), "unsupported format")
}

func TestWriteOutput_RemovesFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ics")

	_, err := writeOutput(io.Discard, path, func(w io.Writer) (int, error) {
		_, _ = w.Write([]byte("partial"))
		return 0, errors.New("boom")
	})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}
