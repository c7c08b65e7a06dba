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

// Package pkgfile implements the container.Reader interface for development
// title packages. A development package is a zip archive with the following
// layout:
//
//	exheader.yaml         title metadata
//	exefs/.code           code section
//	exefs/icon            icon metadata
//	exefs/banner
//	exefs/logo
//	exefs/code.ips        optional IPS patch for the code section
//	romfs/...             asset store
//
// Any file in the exefs directory may instead be stored with zstd compression
// and a .zst suffix. For example, exefs/.code.zst.
//
// The exheader.yaml file is decoded into the Manifest type. Integer values may
// be written in hexadecimal:
//
//	name: CtrApp
//	program_id: 0x0004000000030800
//	executable: true
//	layout:
//	  code: {address: 0x00100000, pages: 4}
//	  rodata: {address: 0x00104000, pages: 1}
//	  data: {address: 0x00105000, pages: 1}
//	  bss_size: 0x800
//	system:
//	  priority: 48
//	  stack_size: 0x4000
//	kernel_caps: [0xfc00022c, 0xff81ff50]
//
// Kernel capabilities not listed are unused (0xffffffff).
package pkgfile
