// Package source defines the uniform failure contract shared by all
// provider clients.
//
// Every client call resolves into either a normalized value or a
// *FetchError; raw transport or decoding errors never escape a
// client. Normalization (unit conversion, timestamp conversion from
// provider millisecond epochs, response reshaping) happens inside the
// clients, never downstream.
package source
