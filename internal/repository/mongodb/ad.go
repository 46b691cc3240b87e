package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"adgallery/internal/model"
	"adgallery/internal/repository"
)

// AdMongo is the MongoDB implementation of repository.AdRepository.
type AdMongo struct {
	base
}

// NewAdMongo creates an ad repository bound to the given collection.
func NewAdMongo(coll Collection) *AdMongo {
	return &AdMongo{base: base{coll: coll}}
}

var _ repository.AdRepository = (*AdMongo)(nil)

// now returns the current UTC time truncated to millisecond precision,
// matching what the BSON datetime type can persist. Stamping truncated
// values keeps written and read timestamps identical.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Create stamps creation timestamps and inserts the document. The
// images and aspect_ratio invariants are enforced here as a last line
// of defense; full field validation belongs to the caller.
func (r *AdMongo) Create(ctx context.Context, ad *model.Ad) (string, error) {
	if len(ad.Images) == 0 {
		return "", model.ErrNoImages
	}
	if ad.AspectRatio() == "" {
		return "", model.ErrAspectRatioRequired
	}

	ts := now()
	ad.CreatedAt = ts
	ad.UpdatedAt = ts

	oid, err := r.insertOne(ctx, ad)
	if err != nil {
		return "", err
	}
	ad.ID = oid
	return oid.Hex(), nil
}

// FindByID returns the ad with the given hex identifier.
func (r *AdMongo) FindByID(ctx context.Context, id string) (*model.Ad, error) {
	var ad model.Ad
	if err := r.findByID(ctx, id, &ad); err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListByWorkspace pages through a workspace's ads, newest first. The
// total count is computed against the same filter and is independent
// of skip/limit.
func (r *AdMongo) ListByWorkspace(ctx context.Context, workspaceID string, pq repository.PageQuery, aspectRatio string) (*repository.PageResult[model.Ad], error) {
	filter := bson.M{"workspace_id": workspaceID}
	if aspectRatio != "" {
		filter["params.aspect_ratio"] = aspectRatio
	}

	sort := bson.D{{Key: "created_at", Value: -1}}

	items := make([]model.Ad, 0)
	if err := r.findMany(ctx, filter, pq.Skip, pq.Limit, sort, &items); err != nil {
		return nil, err
	}

	total, err := r.count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Ad]{Items: items, Total: total}, nil
}

// UpdateMetadata merges the supplied fields into the document. Params
// entries are written through dotted paths so keys absent from the
// update survive untouched. updated_at is always refreshed.
func (r *AdMongo) UpdateMetadata(ctx context.Context, id string, upd repository.MetadataUpdate) (bool, error) {
	set := bson.M{"updated_at": now()}

	for k, v := range upd.Params {
		set["params."+k] = v
	}
	if upd.CustomNote != nil {
		set["custom_note"] = *upd.CustomNote
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}

	return r.updateByID(ctx, id, bson.M{"$set": set})
}

// RemoveImage pulls every image record matching filename in one atomic
// conditional update. The filter requires both a matching record and a
// surviving record with a different filename, so a removal that would
// empty the images array matches nothing and reports false.
func (r *AdMongo) RemoveImage(ctx context.Context, id string, filename string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id": oid,
		"$and": bson.A{
			bson.M{"images": bson.M{"$elemMatch": bson.M{"filename": filename}}},
			bson.M{"images": bson.M{"$elemMatch": bson.M{"filename": bson.M{"$ne": filename}}}},
		},
	}
	update := bson.M{
		"$pull": bson.M{"images": bson.M{"filename": filename}},
		"$set":  bson.M{"updated_at": now()},
	}

	return r.updateOne(ctx, filter, update)
}

// Delete removes the ad and returns the deleted document for blob
// cleanup.
func (r *AdMongo) Delete(ctx context.Context, id string) (*model.Ad, error) {
	ad, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.deleteByID(ctx, id); err != nil {
		return nil, err
	}
	return ad, nil
}

// DeleteByWorkspace removes every ad in the workspace, returning the
// deleted documents.
func (r *AdMongo) DeleteByWorkspace(ctx context.Context, workspaceID string) ([]model.Ad, error) {
	filter := bson.M{"workspace_id": workspaceID}

	ads := make([]model.Ad, 0)
	if err := r.findMany(ctx, filter, 0, 0, nil, &ads); err != nil {
		return nil, err
	}
	if _, err := r.deleteMany(ctx, filter); err != nil {
		return nil, err
	}
	return ads, nil
}

// imageCount is the shape of the unwind-and-count aggregation result.
type imageCount struct {
	TotalImages int64 `bson:"total_images"`
}

func (r *AdMongo) countImages(ctx context.Context, match bson.M) (int64, error) {
	pipeline := mongoPipeline(match,
		bson.D{{Key: "$unwind", Value: "$images"}},
		bson.D{{Key: "$count", Value: "total_images"}},
	)

	var res []imageCount
	if err := r.aggregate(ctx, pipeline, &res); err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0].TotalImages, nil
}

// mongoPipeline builds a pipeline, prepending a $match stage when the
// filter is non-nil.
func mongoPipeline(match bson.M, stages ...bson.D) []bson.D {
	pipeline := make([]bson.D, 0, len(stages)+1)
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline, stages...)
}

// WorkspaceStats counts a workspace's ads and images. The image total
// unwinds the images array so every record is counted once.
func (r *AdMongo) WorkspaceStats(ctx context.Context, workspaceID string) (*repository.WorkspaceStats, error) {
	filter := bson.M{"workspace_id": workspaceID}

	totalAds, err := r.count(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalImages, err := r.countImages(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &repository.WorkspaceStats{
		WorkspaceID: workspaceID,
		TotalAds:    totalAds,
		TotalImages: totalImages,
	}, nil
}

// GlobalStats aggregates over the whole collection.
func (r *AdMongo) GlobalStats(ctx context.Context) (*repository.GlobalStats, error) {
	totalAds, err := r.count(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	totalImages, err := r.countImages(ctx, nil)
	if err != nil {
		return nil, err
	}
	workspaces, err := r.Workspaces(ctx)
	if err != nil {
		return nil, err
	}

	return &repository.GlobalStats{
		TotalAds:        totalAds,
		TotalImages:     totalImages,
		TotalWorkspaces: len(workspaces),
		Workspaces:      workspaces,
	}, nil
}

// Workspaces lists every distinct workspace identifier.
func (r *AdMongo) Workspaces(ctx context.Context) ([]string, error) {
	raw, err := r.distinct(ctx, "workspace_id", bson.M{})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// WorkspaceCounts groups ads by workspace in a single aggregation
// instead of issuing one count query per workspace.
func (r *AdMongo) WorkspaceCounts(ctx context.Context) (map[string]int64, error) {
	pipeline := mongoPipeline(nil, bson.D{{Key: "$group", Value: bson.M{
		"_id":   "$workspace_id",
		"count": bson.M{"$sum": 1},
	}}})

	var groups []struct {
		WorkspaceID string `bson:"_id"`
		Count       int64  `bson:"count"`
	}
	if err := r.aggregate(ctx, pipeline, &groups); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[g.WorkspaceID] = g.Count
	}
	return counts, nil
}
