package vhd

import (
	"errors"
	"io"

	"github.com/vorteil/raw2vhd/pkg/vio"
)

type fixedStreamWrapper struct {
	io.Writer
	raw vio.File
}

func (w *fixedStreamWrapper) wrap() error {

	k, err := io.Copy(w, w.raw)
	if err != nil {
		return err
	}

	if k != w.raw.Size() {
		return errors.New("vhd fixed image writer received less raw image data than expected")
	}

	footer := NewFooter(w.raw.Size())
	b, err := footer.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	if err != nil {
		return err
	}

	return nil
}

// WrapFixed streams the contents of f into w followed by a fixed disk
// footer, yielding a complete fixed VHD image. Writes are strictly
// sequential, so w can be a pipe as easily as a file.
func WrapFixed(w io.Writer, f vio.File) error {

	wrapper := &fixedStreamWrapper{
		Writer: w,
		raw:    f,
	}

	err := wrapper.wrap()
	if err != nil {
		return err
	}

	return nil
}
