/*
File    : ruchy/internal/interp/builtin/crypto.go
*/

// crypto.go generalizes go-mix's std/crypto.go hashing helpers onto
// the stdlib crypto package family.
package builtin

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func init() {
	registerFunc("sha256", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256([]byte(s))
		return &value.Str{Value: hex.EncodeToString(sum[:])}, nil
	})
	registerFunc("sha1", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		sum := sha1.Sum([]byte(s))
		return &value.Str{Value: hex.EncodeToString(sum[:])}, nil
	})
	registerFunc("md5", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		sum := md5.Sum([]byte(s))
		return &value.Str{Value: hex.EncodeToString(sum[:])}, nil
	})
}
