/*
Package carver is a content aware image resize library. It shrinks an image
horizontally and vertically by repeatedly removing the connected pixel path
(seam) carrying the least visual information, instead of cropping or
uniformly scaling it.

Every iteration runs the same pipeline over the current image:

	Luminance -> Energy (Sobel) -> Cumulate -> Trace -> RemoveSeam

Vertical seams are removed to reduce the width. The height is reduced by
transposing the image, removing vertical seams and transposing it back.

The package also ships a command line tool:

	$ carver resize --in input.jpg --out output.jpg --width 300

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"fmt"
		"os"

		"github.com/disintegration/imaging"
		"github.com/esimov/carver"
	)

	func main() {
		src, err := imaging.Open("input.jpg")
		if err != nil {
			panic(err)
		}
		p := &carver.Processor{}
		res, err := p.Resize(context.Background(), carver.FromImage(src), 300, 200)
		if err != nil {
			fmt.Printf("Error rescaling image: %s", err.Error())
			os.Exit(1)
		}
		imaging.Save(res.NRGBA(), "output.jpg")
	}
*/
package carver
