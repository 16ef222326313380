package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	. "github.com/ttpr0/go-siting/util"
	"golang.org/x/exp/slog"
)

type none struct{}

func ReadRequestBody[T any](r *http.Request) (T, error) {
	var req T
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return req, eris.Wrap(err, "rest: read body")
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, eris.Wrap(err, "rest: decode body")
	}
	return req, nil
}

func WriteResponse[T any](w http.ResponseWriter, resp T, status int) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to encode response", "error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

//**********************************************************
// results
//**********************************************************

type Result struct {
	result any
	status int
}

func OK[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusOK,
	}
}

func BadRequest[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusBadRequest,
	}
}

func Status[T any](status int, value T) Result {
	return Result{
		result: value,
		status: status,
	}
}

func _WriteResult(w http.ResponseWriter, method, path string, res Result) {
	if res.status != http.StatusOK {
		slog.Error("failed "+method+" "+path, "status", res.status, "error", res.result)
		WriteResponse(w, NewErrorResponse(path, res.result), res.status)
	} else {
		slog.Info("successfully finished " + method + " " + path)
		WriteResponse(w, res.result, res.status)
	}
}

//**********************************************************
// handler mapping
//**********************************************************

func MapPost[F any](app chi.Router, path string, handler func(context.Context, F) Result) {
	app.Post(path, func(w http.ResponseWriter, r *http.Request) {
		slog.Info("POST " + path)
		body, err := ReadRequestBody[F](r)
		if err != nil {
			_WriteResult(w, "POST", path, BadRequest(err.Error()))
			return
		}
		_WriteResult(w, "POST", path, handler(r.Context(), body))
	})
}

// MapGet decodes the query string into the json tagged fields of F.
func MapGet[F any](app chi.Router, path string, handler func(context.Context, F) Result) {
	var val F
	typ := reflect.TypeOf(val)
	num_field := typ.NumField()
	fields := NewList[Triple[int, string, reflect.Kind]](num_field)
	for i := 0; i < num_field; i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" {
			continue
		}
		switch field.Type.Kind() {
		case reflect.Bool:
			fields.Add(MakeTriple(i, tag, reflect.Bool))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fields.Add(MakeTriple(i, tag, reflect.Int))
		case reflect.Float32, reflect.Float64:
			fields.Add(MakeTriple(i, tag, reflect.Float64))
		case reflect.String:
			fields.Add(MakeTriple(i, tag, reflect.String))
		}
	}
	app.Get(path, func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("GET " + path)
		query := r.URL.Query()
		t := reflect.New(typ).Elem()
		for _, field := range fields {
			value := query.Get(field.B)
			if value == "" {
				continue
			}
			f := t.Field(field.A)
			var err error
			switch field.C {
			case reflect.Bool:
				var b bool
				b, err = strconv.ParseBool(value)
				f.SetBool(b)
			case reflect.Int:
				var num int64
				num, err = strconv.ParseInt(value, 10, 64)
				f.SetInt(num)
			case reflect.Float64:
				var num float64
				num, err = strconv.ParseFloat(value, 64)
				f.SetFloat(num)
			case reflect.String:
				f.SetString(value)
			}
			if err != nil {
				_WriteResult(w, "GET", path, BadRequest("invalid query parameter "+field.B))
				return
			}
		}
		_WriteResult(w, "GET", path, handler(r.Context(), t.Interface().(F)))
	})
}
