package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hitoshi/recipebox/internal/model"
)

// maxRequestBodySize はJSONリクエストボディの上限。
const maxRequestBodySize = 1 << 20

// NewValidator はJSONタグ名でエラーを報告するvalidatorを生成する。
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate はリクエストボディをdstにデコードし、構造体タグで検証する。
// 失敗時はVALIDATION_FAILEDのAPIErrorを返す。
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) *model.APIError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(dst); err != nil {
		return model.NewValidationError("JSONの解析に失敗しました")
	}
	if err := v.Struct(dst); err != nil {
		return model.NewValidationError(describeValidationError(err))
	}
	return nil
}

// describeValidationError は検証エラーをフィールド名とルールの一覧に変換する。
func describeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if _, rest, ok := strings.Cut(ns, "."); ok {
			ns = rest
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", ns, fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
