package storage

import (
	"errors"

	json "github.com/goccy/go-json"
)

// mutate runs one serialized read-modify-write cycle on a document. decode
// turns stored bytes into a value and reports whether it was upgraded;
// create builds a fresh value when the document is absent. fn returns
// whether the result should be written; an upgraded document is always
// written back.
func mutate[T any](
	store DocumentStoreInterface,
	collection Collection,
	key string,
	decode func([]byte) (*T, bool, error),
	create func() *T,
	fn func(doc *T, exists bool) (bool, error),
) (*T, error) {
	unlock := store.Lock(collection, key)
	defer unlock()

	exists := true
	doc, upgraded, err := loadDoc(store, collection, key, decode)
	if errors.Is(err, ErrNotFound) {
		exists = false
		doc = create()
	} else if err != nil {
		return nil, err
	}

	persist, err := fn(doc, exists)
	if err != nil {
		return doc, err
	}
	if !persist && !upgraded {
		return doc, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return doc, err
	}
	return doc, store.Save(collection, key, data)
}

func load[T any](store DocumentStoreInterface, collection Collection, key string, decode func([]byte) (*T, bool, error)) (*T, error) {
	doc, _, err := loadDoc(store, collection, key, decode)
	return doc, err
}

func loadDoc[T any](store DocumentStoreInterface, collection Collection, key string, decode func([]byte) (*T, bool, error)) (*T, bool, error) {
	raw, err := store.Load(collection, key)
	if err != nil {
		return nil, false, err
	}
	return decode(raw)
}

func decodeJSON[T any](raw []byte) (*T, bool, error) {
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}
	return &doc, false, nil
}
