package imagery

import "fmt"

// Process API evalscripts. Each request returns a single-band TIFF so the
// decoder only ever deals with grayscale images; the scene classification
// and DEM use dedicated scripts.
//
// Reflectance bands are returned as raw digital numbers (reflectance x
// 10000) in INT16, matching the L2A product scale. The DEM is returned in
// decimeters so it survives the integer sample type; the client divides
// by ten after decoding.

const sclEvalscript = `//VERSION=3
function setup() {
  return {
    input: ["SCL"],
    output: { bands: 1, sampleType: "UINT8" }
  };
}
function evaluatePixel(sample) {
  return [sample.SCL];
}`

const demEvalscript = `//VERSION=3
function setup() {
  return {
    input: ["DEM"],
    output: { bands: 1, sampleType: "INT16" }
  };
}
function evaluatePixel(sample) {
  return [sample.DEM * 10];
}`

// bandEvalscript returns the script for one reflectance band.
func bandEvalscript(band string) string {
	return fmt.Sprintf(`//VERSION=3
function setup() {
  return {
    input: [%q],
    output: { bands: 1, sampleType: "INT16" }
  };
}
function evaluatePixel(sample) {
  return [sample.%s * 10000];
}`, band, band)
}
