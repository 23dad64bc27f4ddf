package frame

// Pred identifies the prediction method used to encode a subframe's
// samples.
type Pred uint8

const (
	// PredConstant: every sample in the subframe is identical.
	PredConstant Pred = iota
	// PredVerbatim: samples are stored uncompressed.
	PredVerbatim
	// PredFixed: samples are stored as a fixed polynomial predictor
	// (order 0..4) plus Rice-coded residuals.
	PredFixed
	// PredFIR: linear-prediction (LPC) coding. Not implemented by this
	// encoder; kept so subframe-header bit layout stays complete.
	PredFIR
)

// Method selects the width of the Rice parameter field: 4 bits ("Rice1")
// or 5 bits ("Rice2").
type Method uint8

const (
	MethodRice1 Method = iota // 4-bit Rice parameter.
	MethodRice2               // 5-bit Rice parameter.
)

// EscapeParam is the reserved Rice parameter value that marks a partition
// as escaped (raw binary, uncoded). This encoder never emits it.
const EscapeParam = 31

// RiceConfig describes how a subframe's residuals are partitioned for
// Rice coding: a partition order (2^order partitions) and one parameter
// per partition.
type RiceConfig struct {
	Method    Method
	PartOrder uint8
	Params    []uint8
}

// Subframe is the chosen encoding for one channel's samples within a
// frame.
//
// Samples and Residuals are carried as int64 so that a 32-bit-deep side
// channel (one bit wider than the source, per the format) never
// overflows; every other channel's values fit comfortably.
//
// For PredConstant and PredVerbatim, Samples holds the channel's samples
// directly. For PredFixed, Residuals holds the ordered residual set
// described by the format: Residuals[:Order] are the raw warm-up samples
// and Residuals[Order:] are the fixed-predictor residuals; Rice describes
// how the latter are partitioned and coded.
type Subframe struct {
	Pred    Pred
	Order   int
	Wasted  uint8
	Samples []int64

	Residuals []int64
	Rice      RiceConfig
}
