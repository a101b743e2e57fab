/*
 * traj.go, part of gopose.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package traj

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/gopose/v3"
)

//DefaultPrec is the number of decimal places kept for the coordinates.
const DefaultPrec = 2

//Frame is the information stored for each frame beyond the coordinates.
type Frame struct {
	Trial  int
	Score  float64
	Status string
}

//Writer writes a trajectory.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	b         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
	prec      int
	mult      float64
}

//NewWriter creates the trajectory file name for frames of natoms atoms. The header
//map is written to the file, with "prec", if present, setting the precision.
func NewWriter(name string, natoms int, header map[string]string) (*Writer, error) {
	if natoms <= 0 || name == "" {
		return nil, Error{fmt.Sprintf("Can't write %d atoms per frame", natoms), name, []string{"NewWriter"}, true}
	}
	S := &Writer{filename: name, natoms: natoms, prec: DefaultPrec}
	if header != nil {
		if p, ok := header["prec"]; ok {
			prec, err := strconv.Atoi(p)
			if err == nil && prec > 0 {
				S.prec = prec
			} else {
				log.Printf("Invalid precision for trajectory %s. Will use the default", S.filename)
			}
		}
	}
	S.mult = math.Pow(10, float64(S.prec))
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	if strings.HasSuffix(strings.ToLower(name), "z") {
		S.h, err = gzip.NewWriterLevel(S.f, gzip.BestCompression)
	} else {
		S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	}
	if err != nil {
		S.f.Close()
		return nil, Error{"Can't start the compressor " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.b = bufio.NewWriter(S.h)
	keys := make([]string, 0, len(header)+1)
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fmt.Fprintf(S.b, "prec=%d\n", S.prec)
	for _, k := range keys {
		fmt.Fprintf(S.b, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(S.b, "** %d\n", S.natoms)
	S.writeable = true
	return S, nil
}

//Len returns the number of atoms per frame.
func (S *Writer) Len() int { return S.natoms }

//WNext writes a frame.
func (S *Writer) WNext(coord *v3.Matrix, fr Frame) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	if v := coord.NVecs(); v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	for i := 0; i < S.natoms; i++ {
		fmt.Fprintf(S.b, "%d %d %d\n", encode(coord.At(i, 0), S.mult), encode(coord.At(i, 1), S.mult), encode(coord.At(i, 2), S.mult))
	}
	status := fr.Status
	if status == "" {
		status = "-"
	}
	_, err := fmt.Fprintf(S.b, "* %d %.6f %s\n", fr.Trial, fr.Score, strings.Fields(status)[0])
	if err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

func encode(v, mult float64) int {
	return int(math.RoundToEven(v * mult))
}

//Close flushes and closes the trajectory. The Writer can't be used afterwards.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	errs := []error{S.b.Flush(), S.h.Close(), S.f.Close()}
	for _, err := range errs {
		if err != nil {
			return Error{err.Error(), S.filename, []string{"Close"}, true}
		}
	}
	return nil
}

//Reader reads a trajectory.
type Reader struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	mult     float64
	readable bool
}

//zstdCloser makes a *zstd.Decoder an io.ReadCloser
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//NewReader opens the trajectory name for reading. It returns the reader and the header.
func NewReader(name string) (*Reader, map[string]string, error) {
	S := &Reader{filename: name, natoms: -1, prec: DefaultPrec}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, Error{err.Error(), name, []string{"NewReader"}, true}
	}
	if strings.HasSuffix(strings.ToLower(name), "z") {
		S.dec, err = gzip.NewReader(bufio.NewReader(S.f))
	} else {
		var d *zstd.Decoder
		d, err = zstd.NewReader(bufio.NewReader(S.f))
		if err == nil {
			S.dec = zstdCloser{d}
		}
	}
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"Can't read header " + err.Error(), name, []string{"NewReader"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.closeFiles()
			return nil, nil, Error{"Can't read header " + err.Error(), name, []string{"NewReader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.closeFiles()
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s'", str), name, []string{"NewReader"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil {
				S.closeFiles()
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from '%s': %s", nat[1], err.Error()), name, []string{"NewReader"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			S.closeFiles()
			return nil, nil, Error{"Malformed header line: " + str, name, []string{"NewReader"}, true}
		}
		m[kv[0]] = kv[1]
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", S.filename)
		}
	}
	S.mult = math.Pow(10, float64(S.prec))
	S.readable = true
	return S, m, nil
}

func (S *Reader) closeFiles() {
	S.dec.Close()
	S.f.Close()
}

//Readable returns true if Next can be called on the reader.
func (S *Reader) Readable() bool { return S.readable }

//Len returns the number of atoms per frame.
func (S *Reader) Len() int { return S.natoms }

//Next puts the coordinates of the next frame in c, which can be nil, in which case
//the frame is checked and skipped. At the end of the trajectory it returns a
//non-critical LastFrameError and closes the reader.
func (S *Reader) Next(c *v3.Matrix) (Frame, error) {
	var fr Frame
	if !S.readable {
		return fr, Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return fr, Error{fmt.Sprintf("Matrix with %d vectors given for a %d atoms trajectory", c.NVecs(), S.natoms), S.filename, []string{"Next"}, true}
	}
	for i := 0; i < S.natoms; i++ {
		str, err := S.h.ReadString('\n')
		if err != nil {
			if err == io.EOF && i == 0 && str == "" {
				S.Close()
				return fr, newLastFrameError(S.filename, "Next")
			}
			return fr, Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
		}
		s := strings.Fields(str)
		if len(s) != 3 {
			return fr, Error{fmt.Sprintf("%s: '%s'", WrongFormat, strings.TrimSpace(str)), S.filename, []string{"Next"}, true}
		}
		for j, v := range s {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fr, Error{fmt.Sprintf("Can't parse coordinate %d (%s): %s", j, v, err.Error()), S.filename, []string{"Next"}, true}
			}
			if c != nil {
				c.Set(i, j, float64(n)/S.mult)
			}
		}
	}
	str, err := S.h.ReadString('\n')
	if err != nil {
		return fr, Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	fields := strings.Fields(str)
	if len(fields) == 0 || fields[0] != "*" {
		return fr, Error{"Wrong number of atoms in frame", S.filename, []string{"Next"}, true}
	}
	if len(fields) >= 4 {
		fr.Trial, err = strconv.Atoi(fields[1])
		if err == nil {
			fr.Score, err = strconv.ParseFloat(fields[2], 64)
		}
		if err != nil {
			return fr, Error{"Malformed frame termination line: " + strings.TrimSpace(str), S.filename, []string{"Next"}, true}
		}
		fr.Status = fields[3]
	}
	return fr, nil
}

//Close closes the reader, it can't be used afterwards.
func (S *Reader) Close() {
	if !S.readable {
		return
	}
	S.closeFiles()
	S.readable = false
}
