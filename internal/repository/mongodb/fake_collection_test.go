package mongodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection is an in-memory Collection covering the filter,
// update and pipeline shapes the repositories actually issue. It keeps
// the tests server-free while still exercising real query construction
// and BSON round-trips.
type fakeCollection struct {
	mu   sync.Mutex
	docs []bson.M

	// failNext, when set, is returned by the next storage call to
	// simulate an engine failure.
	failNext error
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{}
}

func (f *fakeCollection) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

// toM normalizes any filter/update/document value into bson.M through a
// BSON round-trip, matching what the server would see.
func toM(v interface{}) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fake collection: marshal: %v", err))
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(fmt.Sprintf("fake collection: unmarshal: %v", err))
	}
	return m
}

func lookupPath(doc bson.M, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var cur interface{} = doc
	for _, p := range parts {
		m, ok := cur.(bson.M)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(doc bson.M, path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(bson.M)
		if !ok {
			next = bson.M{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func valuesEqual(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func matchCondition(fieldVal interface{}, cond interface{}) bool {
	condM, ok := cond.(bson.M)
	if !ok {
		return valuesEqual(fieldVal, cond)
	}

	for op, arg := range condM {
		switch op {
		case "$ne":
			if valuesEqual(fieldVal, arg) {
				return false
			}
		case "$elemMatch":
			arr, ok := fieldVal.(bson.A)
			if !ok {
				return false
			}
			matched := false
			for _, el := range arr {
				elM, ok := el.(bson.M)
				if !ok {
					continue
				}
				if matchesFilter(elM, arg.(bson.M)) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			// Treat an unknown operator-less map as an exact match.
			return valuesEqual(fieldVal, cond)
		}
	}
	return true
}

func matchesFilter(doc bson.M, filter bson.M) bool {
	for k, v := range filter {
		if k == "$and" {
			clauses, ok := v.(bson.A)
			if !ok {
				return false
			}
			for _, clause := range clauses {
				if !matchesFilter(doc, clause.(bson.M)) {
					return false
				}
			}
			continue
		}

		fieldVal, found := lookupPath(doc, k)
		if !found {
			// {field: {$ne: x}} matches a missing field.
			if condM, ok := v.(bson.M); ok {
				if _, isNe := condM["$ne"]; isNe && len(condM) == 1 {
					continue
				}
			}
			return false
		}
		if !matchCondition(fieldVal, v) {
			return false
		}
	}
	return true
}

func (f *fakeCollection) matching(filter interface{}) []bson.M {
	fm := toM(filter)
	var out []bson.M
	for _, doc := range f.docs {
		if matchesFilter(doc, fm) {
			out = append(out, doc)
		}
	}
	return out
}

func applyUpdate(doc bson.M, update bson.M) bool {
	modified := false

	if set, ok := update["$set"].(bson.M); ok {
		for k, v := range set {
			prev, had := lookupPath(doc, k)
			if !had || !valuesEqual(prev, v) {
				modified = true
			}
			setPath(doc, k, v)
		}
	}

	if pull, ok := update["$pull"].(bson.M); ok {
		for field, cond := range pull {
			arr, ok := doc[field].(bson.A)
			if !ok {
				continue
			}
			kept := make(bson.A, 0, len(arr))
			for _, el := range arr {
				elM, isM := el.(bson.M)
				if isM && matchesFilter(elM, cond.(bson.M)) {
					modified = true
					continue
				}
				kept = append(kept, el)
			}
			doc[field] = kept
		}
	}

	return modified
}

func sortDocs(docs []bson.M, sortSpec interface{}) {
	sm := toM(sortSpec)
	field, dir := "", 1
	for k, v := range sm {
		field = k
		if d, ok := v.(int32); ok && d < 0 {
			dir = -1
		}
		if d, ok := v.(int64); ok && d < 0 {
			dir = -1
		}
	}
	if field == "" {
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := lookupPath(docs[i], field)
		b, _ := lookupPath(docs[j], field)
		da, aok := a.(primitive.DateTime)
		db, bok := b.(primitive.DateTime)
		if aok && bok {
			if dir < 0 {
				return da > db
			}
			return da < db
		}
		if dir < 0 {
			return fmt.Sprintf("%v", a) > fmt.Sprintf("%v", b)
		}
		return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
	})
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	matched := f.matching(filter)
	if len(matched) == 0 {
		// A real server's miss decodes to ErrNoDocuments, which the base
		// repository maps to the absence sentinel.
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(matched[0], nil, nil)
}

func (f *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	matched := f.matching(filter)

	var skip, limit int64
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Sort != nil {
			sortDocs(matched, o.Sort)
		}
		if o.Skip != nil {
			skip = *o.Skip
		}
		if o.Limit != nil {
			limit = *o.Limit
		}
	}

	if skip > int64(len(matched)) {
		skip = int64(len(matched))
	}
	matched = matched[skip:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}

	out := make([]interface{}, len(matched))
	for i, d := range matched {
		out[i] = d
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func (f *fakeCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return 0, err
	}
	return int64(len(f.matching(filter))), nil
}

func (f *fakeCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	doc := toM(document)
	oid, ok := doc["_id"].(primitive.ObjectID)
	if !ok || oid.IsZero() {
		oid = primitive.NewObjectID()
		doc["_id"] = oid
	}
	f.docs = append(f.docs, doc)
	return &mongo.InsertOneResult{InsertedID: oid}, nil
}

func (f *fakeCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	matched := f.matching(filter)
	if len(matched) == 0 {
		return &mongo.UpdateResult{}, nil
	}

	res := &mongo.UpdateResult{MatchedCount: 1}
	if applyUpdate(matched[0], toM(update)) {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (f *fakeCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	fm := toM(filter)
	for i, doc := range f.docs {
		if matchesFilter(doc, fm) {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (f *fakeCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	fm := toM(filter)
	var kept []bson.M
	var deleted int64
	for _, doc := range f.docs {
		if matchesFilter(doc, fm) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	f.docs = kept
	return &mongo.DeleteResult{DeletedCount: deleted}, nil
}

func (f *fakeCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	stages, ok := pipeline.([]bson.D)
	if !ok {
		return nil, fmt.Errorf("fake collection: unsupported pipeline type %T", pipeline)
	}

	current := make([]bson.M, len(f.docs))
	copy(current, f.docs)

	for _, stage := range stages {
		if len(stage) != 1 {
			return nil, fmt.Errorf("fake collection: malformed stage %v", stage)
		}
		op := stage[0].Key
		arg := stage[0].Value

		switch op {
		case "$match":
			fm := toM(arg)
			var next []bson.M
			for _, doc := range current {
				if matchesFilter(doc, fm) {
					next = append(next, doc)
				}
			}
			current = next

		case "$unwind":
			field := strings.TrimPrefix(arg.(string), "$")
			var next []bson.M
			for _, doc := range current {
				arr, ok := doc[field].(bson.A)
				if !ok {
					continue
				}
				for _, el := range arr {
					clone := bson.M{}
					for k, v := range doc {
						clone[k] = v
					}
					clone[field] = el
					next = append(next, clone)
				}
			}
			current = next

		case "$count":
			name := arg.(string)
			if len(current) == 0 {
				current = nil
				break
			}
			current = []bson.M{{name: int64(len(current))}}

		case "$group":
			spec := toM(arg)
			keyExpr, _ := spec["_id"].(string)
			keyField := strings.TrimPrefix(keyExpr, "$")
			counts := map[string]int64{}
			var order []string
			for _, doc := range current {
				k := fmt.Sprintf("%v", doc[keyField])
				if _, seen := counts[k]; !seen {
					order = append(order, k)
				}
				counts[k]++
			}
			var next []bson.M
			for _, k := range order {
				next = append(next, bson.M{"_id": k, "count": counts[k]})
			}
			current = next

		default:
			return nil, fmt.Errorf("fake collection: unsupported stage %q", op)
		}
	}

	out := make([]interface{}, len(current))
	for i, d := range current {
		out[i] = d
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func (f *fakeCollection) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []interface{}
	for _, doc := range f.matching(filter) {
		v, ok := lookupPath(doc, fieldName)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%v", v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out, nil
}
