// Package securejson decodes untrusted JSON and strips keys that are
// prototype-pollution vectors for JavaScript consumers: "__proto__",
// "constructor" and "prototype", at any depth.
//
// The cleaned value is rebuilt from scratch, so nothing aliases the decoder's
// output. Syntax errors are returned, wrapped with ErrInvalidJSON.
//
//	v, err := securejson.Parse(body)
//	in, err := securejson.Decode[ProfileInput](body)
package securejson
