// Package ibt decodes iRacing binary telemetry (.ibt) files.
//
// An ibt file consists of a fixed header, a table of 144 byte variable headers
// describing the channels of a data record, a YAML like session info text and the
// data records themselves. All records have the same size (the stride) and are
// written at the tick rate of the recording.
//
// Decoding is a pure function of the input bytes: Decode builds a File which can
// be queried for laps and samples. A File is immutable and safe for concurrent use.
package ibt
