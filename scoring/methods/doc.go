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

//Package methods contains energy methods for the scoring package: a split Lennard-Jones
//term (fa_atr and fa_rep), a Coulomb term with a distance-dependent dielectric (fa_elec), backbone
//torsion preferences (rama and omega), reference energies (ref) and harmonic
//restraints (coordinate_constraint and atom_pair_constraint). All of them provide
//analytic derivatives. Standard and FromWeights build score functions out of them.
package methods
