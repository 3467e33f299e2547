// Package print holds the print-product geometry and the fulfillment
// order lifecycle shared by the rendering and vendor layers.
package print

import "fmt"

// Dimensions is a physical page size in inches
type Dimensions struct {
	Width  float64
	Height float64
}

// String formats dimensions the way headless Chrome and the vendor
// specs express them, e.g. "8.00in x 8.00in"
func (d Dimensions) String() string {
	return fmt.Sprintf("%.2fin x %.2fin", d.Width, d.Height)
}

// ProductSpec describes the physical geometry of one vendor product.
// All sizes are in inches and already include bleed on every side, so
// the renderer can use them directly as PDF page sizes. Spine width is
// an affine approximation of the vendor's binding-thickness table.
type ProductSpec struct {
	// Vendor-assigned identifier submitted with print jobs
	PodPackageID string

	// Interior page size, trim plus bleed on all sides
	InteriorWidth  float64
	InteriorHeight float64

	// One cover panel (front or back), board overhang included
	PanelWidth float64
	// Full cover height for the product family
	CoverHeight float64

	// SpineWidth(pages) = SpineSlope*pages + SpineIntercept
	SpineSlope     float64
	SpineIntercept float64
}

// SpineWidth returns the spine thickness in inches for a page count
func (p ProductSpec) SpineWidth(pageCount int) float64 {
	return p.SpineSlope*float64(pageCount) + p.SpineIntercept
}

// InteriorDimensions returns the interior PDF page size
func (p ProductSpec) InteriorDimensions() Dimensions {
	return Dimensions{Width: p.InteriorWidth, Height: p.InteriorHeight}
}

// CoverDimensions returns the one-piece wraparound cover size:
// back panel + spine + front panel wide, fixed product height.
func (p ProductSpec) CoverDimensions(pageCount int) Dimensions {
	return Dimensions{
		Width:  2*p.PanelWidth + p.SpineWidth(pageCount),
		Height: p.CoverHeight,
	}
}

// SquareHardcover775 is the default product: a 7.75" square hardcover
// case wrap, full color premium, 80# coated white, matte finish.
// Interior pages are 7.75" trim plus 0.125" bleed per side.
var SquareHardcover775 = ProductSpec{
	PodPackageID:   "0750X0750FCPRECW080CW444MXX",
	InteriorWidth:  8.0,
	InteriorHeight: 8.0,
	PanelWidth:     8.375,
	CoverHeight:    9.25,
	SpineSlope:     0.0025,
	SpineIntercept: 0.13,
}

// productCatalog maps product keys to their geometry so additional
// vendors or trim sizes can be added without touching the pipeline
var productCatalog = map[string]ProductSpec{
	"square-hardcover-7.75": SquareHardcover775,
}

// ProductByKey looks up a product spec by its catalog key
func ProductByKey(key string) (ProductSpec, bool) {
	spec, ok := productCatalog[key]
	return spec, ok
}

// DefaultProductKey is the catalog key used when none is configured
const DefaultProductKey = "square-hardcover-7.75"
