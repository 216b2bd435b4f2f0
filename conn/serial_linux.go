/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

//go:build linux

package conn

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// rs485Ioctl mirrors linux/serial.h's struct serial_rs485 (the fields this
// gateway cares about); golang.org/x/sys/unix does not expose it directly.
type rs485Ioctl struct {
	Flags               uint32
	DelayRTSBeforeSend  uint32
	DelayRTSAfterSend   uint32
	padding             [5]uint32
}

const (
	serialRS485Enabled = 1 << 0
	tiocSRS485         = 0x542f
)

type posixTTY struct {
	f *os.File
}

func newTTYPort() ttyPort { return &posixTTY{} }

func (p *posixTTY) open(cfg Config) error {
	f, err := os.OpenFile(cfg.Device, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return err
	}

	t, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	if err != nil {
		f.Close()
		return err
	}

	baud, ok := baudConstants[cfg.Baud]
	if !ok {
		f.Close()
		return errAddress(nil)
	}

	// Canonical mode, echo, and signal generation are disabled; raw 8-bit
	// framing per the declared data/parity/stop configuration (§4.2).
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CRTSCTS
	t.Cflag |= unix.CLOCAL | unix.CREAD

	switch cfg.DataBits {
	case 5:
		t.Cflag |= unix.CS5
	case 6:
		t.Cflag |= unix.CS6
	case 7:
		t.Cflag |= unix.CS7
	default:
		t.Cflag |= unix.CS8
	}

	switch cfg.Parity {
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		t.Cflag |= unix.PARENB
	case ParityMark, ParitySpace:
		t.Cflag |= unix.PARENB | unix.PARODD | unix.CMSPAR
	}

	if cfg.StopBits == 2 {
		t.Cflag |= unix.CSTOPB
	}
	if cfg.Flow == FlowOn {
		t.Cflag |= unix.CRTSCTS
	}

	t.Ispeed = baud
	t.Ospeed = baud

	// VMIN/VTIME implement the blocking timeout_ms semantics (§4.2) for
	// the serial kind, where SO_RCVTIMEO has no analogue.
	t.Cc[unix.VMIN] = 0
	if cfg.TimeoutMS > 0 {
		t.Cc[unix.VTIME] = uint8(cfg.TimeoutMS / 100)
	} else {
		t.Cc[unix.VTIME] = 0
	}

	if err := unix.IoctlSetTermios(int(f.Fd()), unix.TCSETS, t); err != nil {
		f.Close()
		return err
	}

	if cfg.RS485 {
		rs := rs485Ioctl{Flags: serialRS485Enabled}
		if err := ioctlSetRS485(int(f.Fd()), &rs); err != nil {
			f.Close()
			return err
		}
	}

	p.f = f
	return nil
}

func ioctlSetRS485(fd int, rs *rs485Ioctl) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(tiocSRS485), uintptr(unsafe.Pointer(rs)))
	if errno != 0 {
		return errno
	}
	return nil
}

func (p *posixTTY) close() error { return p.f.Close() }

func (p *posixTTY) read(buf []byte) (int, error) { return p.f.Read(buf) }

func (p *posixTTY) write(buf []byte) (int, error) { return p.f.Write(buf) }

var baudConstants = map[int]uint32{
	150:    unix.B150,
	300:    unix.B300,
	600:    unix.B600,
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}
