package main

import (
	"flag"
	"log"

	"github.com/mogaika/mdx_browser/anm"
	"github.com/mogaika/mdx_browser/mdx"
	"github.com/mogaika/mdx_browser/utils"
)

// mdxdump loads a model document, evaluates one frame and dumps the
// resulting skeleton pose and skinned geometry stats. Handy for checking
// documents without spinning up the browser.
func main() {
	var model string
	var frame float64
	var geometry bool
	flag.StringVar(&model, "model", "", "Path to model document (.mdx.json)")
	flag.Float64Var(&frame, "frame", 0, "Frame to evaluate")
	flag.BoolVar(&geometry, "geometry", false, "Also dump deformed geoset vertices")
	flag.Parse()

	if model == "" {
		flag.PrintDefaults()
		return
	}

	m, err := mdx.LoadModelFromFile(model)
	if err != nil {
		log.Fatal(err)
	}

	system := anm.NewSystem(m)
	system.Update(float32(frame))

	sk := system.Skeleton()
	pose := system.Pose()
	for i := range sk.Joints {
		j := &sk.Joints[i]
		jp := &pose.Joints[i]
		log.Printf("joint %q (slot %d, parent %d) pos %v visible %v",
			j.Name, i, j.Parent, jp.Pos, jp.Visible)
	}

	if geometry {
		for iGeoset := range m.Geosets {
			positions, normals := system.DeformGeoset(iGeoset)
			log.Printf("geoset %d: %d vertices, visible %v",
				iGeoset, len(positions), system.GeosetVisible(iGeoset))
			utils.Dump(positions, normals)
		}
	}
}
