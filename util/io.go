package util

import (
	"encoding/json"
	"io"
	"os"
)

func WriteJSON[T any](value T, writer io.Writer) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = writer.Write(data)
	return err
}

func WriteJSONToFile[T any](value T, file string) error {
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	defer out.Close()
	return WriteJSON(value, out)
}
