package vdisk

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"os"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"

	"github.com/vorteil/raw2vhd/pkg/elog"
	"github.com/vorteil/raw2vhd/pkg/vhd"
	"github.com/vorteil/raw2vhd/pkg/vio"
)

// Alignment is the boundary raw image sizes must fall on. Azure refuses
// fixed VHDs whose virtual size is not a whole number of mebibytes, and we
// reject rather than pad so the caller decides how to resize.
const Alignment = 0x100000

// ErrNotAligned is returned by Convert, before the destination has been
// created or modified, when the raw image size is not a multiple of
// Alignment. Detect it with errors.Is.
var ErrNotAligned = errors.New("image size is not aligned to 1 MB")

// ConvertArgs contains all arguments a caller can use to customize the
// behaviour of the Convert function.
type ConvertArgs struct {
	RawPath string
	VHDPath string
	Logger  elog.View
}

// Convert reads the raw image at RawPath and writes a fixed VHD rendition
// of it to VHDPath: the raw bytes verbatim followed by a 512-byte footer.
// The destination is created with overwrite semantics. Concurrent
// invocations against the same destination are not guarded against.
func Convert(args *ConvertArgs) error {

	log := args.Logger

	raw, err := vio.LazyOpen(args.RawPath)
	if err != nil {
		return err
	}
	defer raw.Close()

	size := raw.Size()
	if size%Alignment != 0 {
		return errors.Wrapf(ErrNotAligned, "raw image '%s' is %d bytes", args.RawPath, size)
	}

	log.Debugf("raw image size: %s", bytefmt.ByteSize(uint64(size)))

	f, err := os.Create(args.VHDPath)
	if err != nil {
		return err
	}
	defer f.Close()

	progress := log.NewProgress("converting", size)
	defer progress.Finish(false)

	proxy := vio.CustomFile(vio.CustomFileArgs{
		Name:       raw.Name(),
		Size:       size,
		ReadCloser: progress.ProxyReader(raw),
	})
	defer proxy.Close()

	err = vhd.WrapFixed(f, proxy)
	progress.Finish(err == nil)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(args.VHDPath)
		return errors.Wrapf(err, "converting '%s'", args.RawPath)
	}

	err = f.Close()
	if err != nil {
		return err
	}

	log.Infof("created VHD image: %s (%s)", args.VHDPath,
		bytefmt.ByteSize(uint64(size)+vhd.FooterSize))

	return nil
}
