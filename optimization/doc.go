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
Package optimization minimizes the score of a pose in internal coordinates. The variables are the
backbone and side chain torsions and the rigid body jumps enabled in a MoveMap. The gradient is obtained
from the atomic F1 and F2 vectors of the score function, so one derivative evaluation serves all the
degrees of freedom. The actual minimization is carried out by gonum's optimize package.
*/
package optimization
