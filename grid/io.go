// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// WriteGmsh writes g in gmsh 2.2 ASCII format.
func WriteGmsh(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	fmt.Fprintf(bw, "$Nodes\n%d\n", g.NPoints())
	for i := 0; i < g.NPoints(); i++ {
		p := g.Point(i)
		fmt.Fprintf(bw, "%d %v %v %v\n", i, p.X, p.Y, p.Z)
	}
	fmt.Fprintf(bw, "$EndNodes\n")
	fmt.Fprintf(bw, "$Elements\n%d\n", g.NCells())
	for i := 0; i < g.NCells(); i++ {
		c := g.Cell(i)
		fmt.Fprintf(bw, "%d 2 2 0 0 %d %d %d\n", i, c[0], c[1], c[2])
	}
	fmt.Fprintf(bw, "$EndElements\n")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "writing gmsh mesh")
	}
	return nil
}

// ExportGmsh writes g in gmsh 2.2 ASCII format to the named file.
func ExportGmsh(g *Grid, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "exporting grid to %s", name)
	}
	if err := WriteGmsh(f, g); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "exporting grid to %s", name)
}
