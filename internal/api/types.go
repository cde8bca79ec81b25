package api

import "github.com/samcharles93/blasq/internal/stream"

type DotRequest struct {
	Precision string    `json:"precision,omitempty"`
	Conj      *bool     `json:"conj,omitempty"`
	N         int64     `json:"n"`
	X         []float64 `json:"x"`
	IncX      *int64    `json:"incx,omitempty"`
	Y         []float64 `json:"y"`
	IncY      *int64    `json:"incy,omitempty"`
}

type DotResponse struct {
	ID     string  `json:"id"`
	Result float64 `json:"result"`
}

type AxpyRequest struct {
	Precision string    `json:"precision,omitempty"`
	N         int64     `json:"n"`
	Alpha     float64   `json:"alpha"`
	X         []float64 `json:"x"`
	IncX      *int64    `json:"incx,omitempty"`
	Y         []float64 `json:"y"`
	IncY      *int64    `json:"incy,omitempty"`
}

type AxpyResponse struct {
	ID string    `json:"id"`
	Y  []float64 `json:"y"`
}

type GemmRequest struct {
	Precision string    `json:"precision,omitempty"`
	Layout    string    `json:"layout,omitempty"`
	TransA    string    `json:"trans_a,omitempty"`
	TransB    string    `json:"trans_b,omitempty"`
	M         int64     `json:"m"`
	N         int64     `json:"n"`
	K         int64     `json:"k"`
	Alpha     float64   `json:"alpha"`
	A         []float64 `json:"a"`
	LdA       int64     `json:"lda"`
	B         []float64 `json:"b"`
	LdB       int64     `json:"ldb"`
	Beta      float64   `json:"beta"`
	C         []float64 `json:"c"`
	LdC       int64     `json:"ldc"`
}

type GemmResponse struct {
	ID string    `json:"id"`
	C  []float64 `json:"c"`
}

// BatchGemmRequest carries one value per item or a single shared value in
// every slice.
type BatchGemmRequest struct {
	Precision  string      `json:"precision,omitempty"`
	Layout     string      `json:"layout,omitempty"`
	TransA     []string    `json:"trans_a"`
	TransB     []string    `json:"trans_b"`
	M          []int64     `json:"m"`
	N          []int64     `json:"n"`
	K          []int64     `json:"k"`
	Alpha      []float64   `json:"alpha"`
	A          [][]float64 `json:"a"`
	LdA        []int64     `json:"lda"`
	B          [][]float64 `json:"b"`
	LdB        []int64     `json:"ldb"`
	Beta       []float64   `json:"beta"`
	C          [][]float64 `json:"c"`
	LdC        []int64     `json:"ldc"`
	BatchCount int         `json:"batch_count"`
}

type BatchGemmResponse struct {
	ID   string      `json:"id"`
	C    [][]float64 `json:"c"`
	Info []int64     `json:"info"`
}

type InfoResponse struct {
	Version    string          `json:"version"`
	Kernels    string          `json:"kernels"`
	KernelSets []string        `json:"kernel_sets"`
	Layout     string          `json:"native_layout"`
	IntMax     int64           `json:"int_max"`
	ForkSize   int             `json:"fork_size"`
	MaxStreams int             `json:"max_streams"`
	Devices    []stream.Device `json:"devices"`
}
