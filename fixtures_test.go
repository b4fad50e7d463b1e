package main

import "jvanrhyn.dev/disklayers/internal/layout"

// sampleRecords is a root holding document b (600) and folder a with
// documents a/x (300) and a/y (100). Paint order from the root:
// root | b [0,.6) a [.6,1) | a/x [.6,.9) a/y [.9,1)
func sampleRecords() []layout.Record {
	return []layout.Record{
		{ID: ".", ParentID: ".", Name: "root", Kind: layout.Folder},
		{ID: "a", ParentID: ".", Name: "a", Kind: layout.Folder},
		{ID: "a/x", ParentID: "a", Name: "x.txt", Kind: layout.Document, Size: 300},
		{ID: "a/y", ParentID: "a", Name: "y.txt", Kind: layout.Document, Size: 100},
		{ID: "b", ParentID: ".", Name: "b.zip", Kind: layout.Document, Size: 600},
	}
}

func samplePaint() []layout.Layer {
	layers, err := paintLayers(sampleRecords(), "")
	if err != nil {
		panic(err)
	}
	return layers
}
