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
Package fpdock implements the high resolution flexible peptide docking protocol:
a peptide chain is docked onto a receptor chain by cycles of Monte Carlo plus
minimization (MCM). Each cycle perturbs either the rigid body placement of the
peptide or its backbone torsions, repacks side chains, minimizes structures that
stand a chance of being accepted and applies the Metropolis criterion.
The repulsive and Ramachandran weights of the score function are ramped from soft
to full values along an outer loop of stages.

The protocol is configured with a Flags structure, which can be read from JSON.
Independent decoys can be produced in parallel with RunDecoys.
*/
package fpdock
