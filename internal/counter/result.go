package counter

import "image"

// Object is one retained component. IDs are sequential starting at 1,
// assigned in raster scan order of the underlying labels; they are unrelated
// to the label values dropped by area filtering.
type Object struct {
	ID       int        `json:"id"`
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Area     int        `json:"area"`
	Centroid [2]float64 `json:"centroid"`
}

// Statistics aggregates the retained component areas. All values are zero
// when no components survive the filter.
type Statistics struct {
	Total      int     `json:"total"`
	MeanArea   float64 `json:"area_media"`
	MedianArea float64 `json:"area_mediana"`
	MinArea    int     `json:"area_min"`
	MaxArea    int     `json:"area_max"`
	StdDevArea float64 `json:"desvio_padrao"`
}

// Result is the outcome of processing one image. The images are excluded
// from the JSON projection; the serialized shape is consumed by the batch
// and server layers.
type Result struct {
	TotalObjects int        `json:"total_objetos"`
	Statistics   Statistics `json:"estatisticas"`
	Objects      []Object   `json:"objetos_detectados"`

	Original  image.Image `json:"-"`
	Binary    *image.Gray `json:"-"`
	Annotated *image.RGBA `json:"-"`
}
