// This file is part of Titleloader.
//
// Titleloader is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Titleloader is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Titleloader.  If not, see <https://www.gnu.org/licenses/>.

package packageloader

import (
	_ "crypto/sha256"
	_ "crypto/sha512"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
)

// Loader is used to specify the package to load.
type Loader struct {
	// filename or URL of the package
	Filename string

	// expected digest of the loaded package. empty string indicates that the
	// digest is unknown and need not be validated. after a load operation the
	// value will be the digest of the loaded data
	Hash digest.Digest

	// copy of the loaded data. subsequent calls to Load() will not reload the
	// data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{
		Filename: strings.TrimSpace(filename),
	}
}

// FileExtensions is the list of file extensions that are recognised by the
// packageloader package.
var FileExtensions = [...]string{".ZIP", ".TLP"}

// HasExtension returns true if the filename has one of the recognised file
// extensions. Alphabetic characters can be in either case.
func HasExtension(filename string) bool {
	ext := strings.ToUpper(path.Ext(filename))
	for _, e := range FileExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ShortName returns a shortened version of the Loader filename.
func (ld Loader) ShortName() string {
	shortName := path.Base(ld.Filename)
	shortName = strings.TrimSuffix(shortName, path.Ext(ld.Filename))
	return shortName
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Data) > 0
}

// Load the package data. Loader filenames with a valid scheme will use that
// method to load the data. Currently supported schemes are HTTP and local
// files.
func (ld *Loader) Load() error {
	if len(ld.Data) > 0 {
		return nil
	}

	scheme := "file"

	u, err := url.Parse(ld.Filename)
	if err == nil {
		scheme = u.Scheme
	}

	var data []byte

	switch scheme {
	case "http":
		fallthrough
	case "https":
		resp, err := http.Get(ld.Filename)
		if err != nil {
			return curated.Errorf("packageloader: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return curated.Errorf("packageloader: %s: %s", ld.Filename, resp.Status)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return curated.Errorf("packageloader: %v", err)
		}

	case "file":
		// a file URL or a filename that could not be parsed as a URL
		pth := ld.Filename
		if u != nil && u.Scheme == "file" {
			pth = u.Path
		}
		data, err = os.ReadFile(pth)
		if err != nil {
			return curated.Errorf("packageloader: %v", err)
		}

	case "":
		data, err = os.ReadFile(ld.Filename)
		if err != nil {
			return curated.Errorf("packageloader: %v", err)
		}

	default:
		// a single letter scheme is almost certainly a windows drive letter
		if len(scheme) == 1 {
			data, err = os.ReadFile(ld.Filename)
			if err != nil {
				return curated.Errorf("packageloader: %v", err)
			}
			break
		}
		return curated.Errorf("packageloader: unsupported URL scheme (%s)", scheme)
	}

	if len(data) == 0 {
		return curated.Errorf("packageloader: %s: empty package", ld.Filename)
	}

	// check for digest consistency. the expected digest decides the algorithm
	var dgst digest.Digest
	if ld.Hash != "" {
		if err := ld.Hash.Validate(); err != nil {
			return curated.Errorf("packageloader: %v", err)
		}
		dgst = ld.Hash.Algorithm().FromBytes(data)
		if dgst != ld.Hash {
			return curated.Errorf("packageloader: unexpected digest value (%s)", dgst)
		}
	} else {
		dgst = digest.FromBytes(data)
	}

	ld.Hash = dgst
	ld.Data = data

	logger.Logf(logger.Allow, "package", "%s: %s", ld.ShortName(), ld.Hash)

	return nil
}
