// Package tests provides the external test data shared by the tests of other
// packages: the nes-test-roms collection and the Tom Harte processor tests.
package tests

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

func decompress(zipFile, dest string) error {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		fname := strings.Replace(f.Name, "nes-test-roms-master", "nes-test-roms", 1)
		fpath := filepath.Join(dest, fname)
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("%s: illegal file path", fpath)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(fpath, os.ModePerm)
			continue
		}

		if err = os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}

		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)

		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}

	log.Println("decompressed", len(r.File), "files")
	return nil
}

func downloadTestRoms(dest string) error {
	const url = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	tmpf, err := os.CreateTemp("", "nes-test-roms-*-.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmpf.Name())

	_, err = io.Copy(tmpf, resp.Body)
	tmpf.Close()
	if err != nil {
		return err
	}

	if err := decompress(tmpf.Name(), dest); err != nil {
		return fmt.Errorf("failed to decompress test roms: %w", err)
	}
	return nil
}

var romsPath = sync.OnceValues(func() (string, error) {
	_, b, _, _ := runtime.Caller(0)
	testsDir := filepath.Dir(b)
	romsDir := filepath.Join(testsDir, "nes-test-roms")

	if _, err := os.Stat(romsDir); errors.Is(err, fs.ErrNotExist) {
		log.Println("nes-test-roms directory not found, downloading it...")
		if err := downloadTestRoms(testsDir); err != nil {
			return "", err
		}
		log.Println("test roms downloaded in", romsDir)
	}
	return romsDir, nil
})

// RomsPath returns the path of the nes-test-roms directory, downloading it if
// needed. The test is skipped if the roms are not available.
func RomsPath(tb testing.TB) string {
	tb.Helper()

	dir, err := romsPath()
	if err != nil {
		tb.Skipf("test roms not available: %s", err)
	}
	return dir
}

// download all 256 (one per opcode) Tom harte 6502 test files into dest dir.
func downloadTomHarteProcTests(dest string) error {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/nes6502/v1/%s.json`

	tempdir, err := os.MkdirTemp("", "tom.harte.processor.tests.*")
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		opstr := fmt.Sprintf("%02x", opcode)
		url := fmt.Sprintf(urlfmt, opstr)

		g.Go(func() error {
			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("GET %s: %s", url, resp.Status)
			}

			f, err := os.Create(filepath.Join(tempdir, opstr+".json"))
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = io.Copy(f, resp.Body)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		return fmt.Errorf("failed to download all files: %w", err)
	}
	return os.Rename(tempdir, dest)
}

var tomHartePath = sync.OnceValues(func() (string, error) {
	_, b, _, _ := runtime.Caller(0)
	testsDir := filepath.Join(filepath.Dir(b), "tomharte.processor.tests")

	if _, err := os.Stat(testsDir); errors.Is(err, fs.ErrNotExist) {
		log.Println("tomharte.processor.tests directory not found, downloading it...")
		if err := downloadTomHarteProcTests(testsDir); err != nil {
			return "", err
		}
		log.Println("Tom Harte processor tests downloaded in", testsDir)
	}
	return testsDir, nil
})

// TomHarteProcTestsPath returns the directory holding the Tom Harte processor
// tests, one JSON file per opcode, downloading them if needed. The test is
// skipped if they are not available.
func TomHarteProcTestsPath(tb testing.TB) string {
	tb.Helper()

	dir, err := tomHartePath()
	if err != nil {
		tb.Skipf("Tom Harte processor tests not available: %s", err)
	}
	return dir
}
