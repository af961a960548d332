package generator

import "errors"

const (
	// DefaultCeiling は1回のバッチで生成できる上限数です。
	DefaultCeiling = 5000

	DefaultWidth  = 1000
	DefaultHeight = 1000

	DefaultPrefix       = "nft-"
	DefaultImageFolder  = "images"
	DefaultManifestName = "metadata.csv"

	// NoneLabel はメタデータで「画像なし」を表す値です。
	NoneLabel = "None"
)

var (
	ErrInvalidBatchSize  = errors.New("batch size must be a positive integer")
	ErrBatchSizeExceeded = errors.New("batch size exceeds the allowed maximum")
	ErrNoLayers          = errors.New("no layers to generate from")
	ErrNoOutputs         = errors.New("no generated outputs")
	ErrArchive           = errors.New("archive assembly failed")
	ErrNotAuthorized     = errors.New("download not authorized")
)
