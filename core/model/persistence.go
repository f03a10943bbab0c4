package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/purepremium/pkg/errors"
)

// SaveModel は学習済みの推定器をgob形式でファイルに保存する
//
// 使用例:
//
//	w := preprocessing.NewWinsorizer(0.05, 0.95)
//	_ = w.FitFrame(train)
//	err := model.SaveModel(w, "winsorizer.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer file.Close()

	if err := SaveModelToWriter(model, file); err != nil {
		return err
	}
	return file.Close()
}

// LoadModel はファイルから推定器を読み込む
//
// 使用例:
//
//	var w preprocessing.Winsorizer
//	err := model.LoadModel(&w, "winsorizer.gob")
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter は推定器をio.Writerに保存する
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerから推定器を読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
