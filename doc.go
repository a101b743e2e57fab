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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package pose is the main package of the goPose library. It provides the conformation
model used by the scoring and sampling packages: atoms, residues, an ideal peptide
builder, the fold tree and the kinematics (torsions and rigid-body jumps) that
operate on the cartesian coordinates of a pose.

	**goPose Capabilities**

	Builds ideal peptides from a sequence and backbone torsions.

	Gets and sets phi, psi, omega and chi torsions, moving the atoms downstream
	of the bond according to the fold tree.

	Represents rigid-body relations between chains as jumps between residue stubs.

	Validates fold trees (connected, acyclic, spanning all residues).

	Selects the degrees of freedom that samplers and minimizers may change with a MoveMap.

The sub-packages scoring, moves, montecarlo, optimization and protocols/fpdock
build on this package.
*/
package pose
