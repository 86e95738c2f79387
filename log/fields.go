package log

import "go.uber.org/zap"

var (
	Skip       = zap.Skip
	Binary     = zap.Binary
	Bool       = zap.Bool
	ByteString = zap.ByteString
	Float64    = zap.Float64
	Float32    = zap.Float32
	Int        = zap.Int
	Int64      = zap.Int64
	Int32      = zap.Int32
	Uint       = zap.Uint
	Uint32     = zap.Uint32
	String     = zap.String
	Strings    = zap.Strings
	Reflect    = zap.Reflect
	Stringer   = zap.Stringer
	Time       = zap.Time
	Duration   = zap.Duration
	Any        = zap.Any
	Namespace  = zap.Namespace

	// Float is kept as alias since most callers deal with float64 anyway
	Float = zap.Float64
)

func ErrorField(err error) Field {
	return zap.Error(err)
}
