// Package quickbms wraps the QuickBMS archive extractor used to unpack Wwise
// .pck packages with the wwise_pck_extractor.bms script.
package quickbms
