//go:build linux

package board

import (
	"fmt"
	"image"
	"os"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const fbioGetVScreeninfo = 0x4600

type fbBitfield struct {
	offset   uint32
	length   uint32
	msbRight uint32
}

// fbVarScreeninfo mirrors struct fb_var_screeninfo from linux/fb.h.
type fbVarScreeninfo struct {
	xres         uint32
	yres         uint32
	xresVirtual  uint32
	yresVirtual  uint32
	xoffset      uint32
	yoffset      uint32
	bitsPerPixel uint32
	grayscale    uint32

	red    fbBitfield
	green  fbBitfield
	blue   fbBitfield
	transp fbBitfield

	nonstd      uint32
	activate    uint32
	height      uint32
	width       uint32
	accelFlags  uint32
	pixclock    uint32
	leftMargin  uint32
	rightMargin uint32
	upperMargin uint32
	lowerMargin uint32
	hsyncLen    uint32
	vsyncLen    uint32
	sync        uint32
	vmode       uint32
	rotate      uint32
	colorspace  uint32
	reserved    [4]uint32
}

// framebuffer owns an fbdev device node with its memory mapped in.
// Drawing happens in an RGBA backbuffer; Present converts and copies it
// into the mapped region in one pass.
type framebuffer struct {
	logger *zap.SugaredLogger
	file   *os.File
	mem    []byte
	width  int
	height int
	depth  int
	frame  *image.RGBA
}

func openFramebuffer(logger *zap.SugaredLogger, device string) (*framebuffer, error) {
	if device == "" {
		device = "/dev/fb0"
	}

	file, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer device: %w", err)
	}

	var info fbVarScreeninfo
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, file.Fd(), fbioGetVScreeninfo, uintptr(unsafe.Pointer(&info))); errno != 0 {
		file.Close()
		return nil, fmt.Errorf("query framebuffer geometry: %w", errno)
	}

	if info.bitsPerPixel != 16 && info.bitsPerPixel != 32 {
		file.Close()
		return nil, fmt.Errorf("unsupported framebuffer depth: %d bpp", info.bitsPerPixel)
	}

	size := int(info.xres) * int(info.yres) * int(info.bitsPerPixel) / 8

	mem, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("map framebuffer memory: %w", err)
	}

	fb := &framebuffer{
		logger: logger.Named("fbdev"),
		file:   file,
		mem:    mem,
		width:  int(info.xres),
		height: int(info.yres),
		depth:  int(info.bitsPerPixel),
		frame:  image.NewRGBA(image.Rect(0, 0, int(info.xres), int(info.yres))),
	}

	fb.logger.Debugw("Framebuffer mapped",
		"device", device,
		"width", fb.width,
		"height", fb.height,
		"depth", fb.depth)

	return fb, nil
}

func (fb *framebuffer) Size() (int, int) {
	return fb.width, fb.height
}

func (fb *framebuffer) Frame() *image.RGBA {
	return fb.frame
}

// Present converts the RGBA backbuffer into the device's pixel layout
// (RGB565 little-endian at 16bpp, BGRX at 32bpp) and copies it into the
// mapped framebuffer memory.
func (fb *framebuffer) Present() error {
	pix := fb.frame.Pix

	switch fb.depth {
	case 16:
		for i, o := 0, 0; i < len(pix); i, o = i+4, o+2 {
			v := uint16(pix[i]>>3)<<11 | uint16(pix[i+1]>>2)<<5 | uint16(pix[i+2]>>3)
			fb.mem[o] = byte(v)
			fb.mem[o+1] = byte(v >> 8)
		}
	case 32:
		for i, o := 0, 0; i < len(pix); i, o = i+4, o+4 {
			fb.mem[o] = pix[i+2]
			fb.mem[o+1] = pix[i+1]
			fb.mem[o+2] = pix[i]
			fb.mem[o+3] = 0x00
		}
	}

	return nil
}

func (fb *framebuffer) Close() error {
	if err := unix.Munmap(fb.mem); err != nil {
		fb.logger.Warnw("Failed to unmap framebuffer memory", "error", err)
	}

	return fb.file.Close()
}
