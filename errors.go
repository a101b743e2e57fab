/*
 * errors.go, part of gopose.
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

package pose

import "fmt"

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it should just return the current value.
	Critical() bool
}

//CError (Common Error) is the error type returned by the functions in this package.
//Critical errors are configuration errors (the caller gave something that cannot work),
//non-critical ones can be handled and the run continued.
type CError struct {
	msg      string
	deco     []string
	critical bool
}

//NewError returns a new CError with the given message, caller and criticality.
//It is meant for the other packages of the library.
func NewError(msg, caller string, critical bool) CError {
	return CError{msg, []string{caller}, critical}
}

func (err CError) Error() string { return err.msg }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err CError) Critical() bool { return err.critical }

//Errorf is a shortcut to build a critical CError with a formatted message.
func Errorf(caller, format string, a ...interface{}) CError {
	return CError{fmt.Sprintf(format, a...), []string{caller}, true}
}

//ErrDecorate is a helper function that decorates the error with the caller's name before returning it.
//errors that don't implement Error are returned unchanged.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//IsCritical returns true if err is a critical Error, or is not an Error at all.
func IsCritical(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok {
		return e.Critical()
	}
	return true
}

//PanicMsg is the type used for all the panics raised in the pose package.
//Panics are only raised for programming errors.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilPose       = PanicMsg("goPose: Attempted to operate on a nil Pose")
	ErrAtomOutRange  = PanicMsg("goPose: Atom index out of range")
	ErrResOutRange   = PanicMsg("goPose: Residue index out of range")
	ErrNotBuilt      = PanicMsg("goPose: Attempted to use an object that was not properly constructed")
	ErrNoTorsion     = PanicMsg("goPose: Requested torsion is not defined for this residue")
	ErrJumpOutRange  = PanicMsg("goPose: Jump index out of range")
	ErrDegenerateRot = PanicMsg("goPose: Rotation axis has zero length")
)
