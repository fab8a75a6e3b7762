package common

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

func RelURL(prefix, url string) string {
	url = strings.TrimPrefix(url, "/")
	p := strings.Trim(prefix, "/")
	if len(p) == 0 {
		return "/" + url
	}
	return "/" + p + "/" + url
}

func SendJSONResponse(ctx context.Context, w http.ResponseWriter, data interface{}, headers map[string]string) {
	response, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to serialise response", ErrAttr(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.Header().Set(HeaderContentLength, strconv.Itoa(len(response)))
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(http.StatusOK)

	n, err := w.Write(response)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to send response", ErrAttr(err))
	} else {
		slog.Log(ctx, LevelTrace, "Sent response", "serialized", len(response), "sent", n)
	}
}

func ParseBoolean(value string) bool {
	switch value {
	case "1", "Y", "y", "yes", "Yes", "true":
		return true
	default:
		return false
	}
}

func SplitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); len(item) > 0 {
			result = append(result, item)
		}
	}
	return result
}
