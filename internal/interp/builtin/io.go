/*
File    : ruchy/internal/interp/builtin/io.go
*/

package builtin

import (
	"fmt"
	"os"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func init() {
	readFile := func(rt value.Runtime, args []value.Value) (value.Value, error) {
		path, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read_file: %w", err)
		}
		return &value.Str{Value: string(data)}, nil
	}
	registerFunc("read_file", readFile)
	registerFunc("__builtin_read_file__", readFile)

	registerFunc("write_file", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		path, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		content, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write_file: %w", err)
		}
		return &value.Unit{}, nil
	})

	registerFunc("append_file", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		path, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		content, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("append_file: %w", err)
		}
		defer f.Close()
		if _, err := f.WriteString(content); err != nil {
			return nil, fmt.Errorf("append_file: %w", err)
		}
		return &value.Unit{}, nil
	})

	registerFunc("file_exists", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		path, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(path)
		return &value.Bool{Value: statErr == nil}, nil
	})

	open := func(rt value.Runtime, args []value.Value) (value.Value, error) {
		path, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		mode := "r"
		if len(args) > 1 {
			mode, err = strArg(args, 1)
			if err != nil {
				return nil, err
			}
		}
		var flag int
		switch mode {
		case "r":
			flag = os.O_RDONLY
		case "w":
			flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		case "a":
			flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		default:
			return nil, fmt.Errorf("open: unknown mode %q", mode)
		}
		f, err := os.OpenFile(path, flag, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		return &value.FileHandle{Path: path, File: f}, nil
	}
	registerFunc("open", open)
	registerFunc("__builtin_open__", open)

	registerMethod(value.KindFile, "read", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		fh := receiver.(*value.FileHandle)
		data, err := os.ReadFile(fh.Path)
		if err != nil {
			return nil, err
		}
		return &value.Str{Value: string(data)}, nil
	})
	registerMethod(value.KindFile, "write", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		fh := receiver.(*value.FileHandle)
		content, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		_, err = fh.File.WriteString(content)
		return &value.Unit{}, err
	})
	registerMethod(value.KindFile, "close", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		fh := receiver.(*value.FileHandle)
		return &value.Unit{}, fh.Close()
	})
}
