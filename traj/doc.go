/*
 * doc.go, part of gopose.
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

/*
Package traj writes and reads sampling trajectories in a simple text format compressed
with z-standard (zstd), derived from goChem's stf.

A trajectory has a header, one line per key=value pair, which ends with a line
starting with "**" followed by one or more spaces and the number of atoms per frame.
The key "prec" gives the precision: each coordinate is written in A, multiplied by 10 to the
power of prec and rounded to an integer. The default precision is 2.

After the header, each frame has one line per atom, with 3 integers, the encoded x y and z
coordinates. A frame ends with a line starting with "*" followed by the Monte Carlo trial number,
the score and the outcome of the trial, separated by spaces.

Files whose name ends in "z" are compressed with gzip instead of zstd.
*/
package traj
