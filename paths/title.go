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

package paths

import (
	"fmt"
	"path/filepath"
)

// MediaType identifies the storage medium a title is installed to.
type MediaType int

// List of valid MediaType values.
const (
	MediaNAND MediaType = iota
	MediaSDMC
	MediaGameCard
)

func (m MediaType) String() string {
	switch m {
	case MediaNAND:
		return "NAND"
	case MediaSDMC:
		return "SDMC"
	case MediaGameCard:
		return "GameCard"
	}
	return "unknown media"
}

// the content index of the main package of an installed title
const mainContent = "00000000.app"

// TitleContentPath returns the path to the main content of an installed title.
// The root argument is the directory standing in for the storage medium.
//
//	<root>/title/<title id high>/<title id low>/content/00000000.app
func TitleContentPath(root string, titleID uint64) string {
	high := uint32(titleID >> 32)
	low := uint32(titleID)
	return filepath.Join(root, "title",
		fmt.Sprintf("%08x", high),
		fmt.Sprintf("%08x", low),
		"content", mainContent)
}

// Media maps a MediaType to the root directory standing in for that medium.
type Media map[MediaType]string

// PathFor returns the content path for the title on the specified medium. An
// empty string is returned if the medium has no root directory.
func (m Media) PathFor(media MediaType, titleID uint64) string {
	root, ok := m[media]
	if !ok || root == "" {
		return ""
	}
	return TitleContentPath(root, titleID)
}
