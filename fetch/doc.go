// Package fetch retrieves module binaries over HTTP, from the local
// filesystem or from S3-compatible object storage.
//
// Every source makes exactly one attempt and reports failures in
// errors.PhaseFetch: KindNetwork for transport failures, KindStatus for a
// non-2xx response (Value holds the code), KindNotFound for a missing file
// or object and KindTooLarge past the byte limit.
package fetch
