package encoding

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// JsonMarshalIndentToString 缩进格式的JSON字符串，用于打印
func JsonMarshalIndentToString(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "JsonMarshalIndentToString")
	}
	return string(b), nil
}

// JsonIndent 对已编码的JSON重新缩进
func JsonIndent(data []byte) (string, error) {
	var v json.RawMessage = data
	return JsonMarshalIndentToString(v)
}
