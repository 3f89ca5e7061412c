package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
)

const mediaColumns = `id, type, name, file_path, text, active, created_at`

func (s *pgStore) CreateMedia(mediaType, name string, filePath, text *string) (model.Media, error) {
	var m model.Media
	const q = `
	INSERT INTO media (type, name, file_path, text, active, created_at)
	VALUES ($1, $2, $3, $4, true, now())
	RETURNING ` + mediaColumns + `;`
	if err := s.db.Get(&m, q, mediaType, name, filePath, text); err != nil {
		log.Error().Err(err).Str("type", mediaType).Msg("CreateMedia failed")
		return model.Media{}, err
	}
	return m, nil
}

func (s *pgStore) GetMediaByID(id int) (model.Media, error) {
	var m model.Media
	err := s.db.Get(&m, `SELECT `+mediaColumns+` FROM media WHERE id = $1;`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Media{}, sql.ErrNoRows
		}
		log.Error().Err(err).Int("media_id", id).Msg("GetMediaByID failed")
	}
	return m, err
}

func (s *pgStore) ListMedia(mediaType *string, active *bool) ([]model.Media, error) {
	var out []model.Media
	const q = `
	SELECT ` + mediaColumns + `
	  FROM media
	 WHERE ($1::text IS NULL OR type = $1)
	   AND ($2::boolean IS NULL OR active = $2)
	 ORDER BY created_at DESC;`
	if err := s.db.Select(&out, q, mediaType, active); err != nil {
		log.Error().Err(err).Msg("ListMedia failed")
		return nil, err
	}
	return out, nil
}

// UpdateMedia renames, edits text, or toggles activation. The text column is
// only written for text media; other kinds keep their payload untouched.
func (s *pgStore) UpdateMedia(id int, name, text *string, active *bool) error {
	const q = `
	UPDATE media
	   SET name   = COALESCE($2, name),
	       text   = CASE WHEN type = 'text' THEN COALESCE($3, text) ELSE text END,
	       active = COALESCE($4, active)
	 WHERE id = $1;`
	res, err := s.db.Exec(q, id, name, text, active)
	if err != nil {
		log.Error().Err(err).Int("media_id", id).Msg("UpdateMedia failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteMedia removes a media item. Its schedule entries go with it via the
// ON DELETE CASCADE foreign key.
func (s *pgStore) DeleteMedia(id int) error {
	res, err := s.db.Exec(`DELETE FROM media WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("media_id", id).Msg("DeleteMedia failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) MediaStats() (model.MediaStats, error) {
	var st model.MediaStats
	const q = `
	SELECT count(*)                                        AS total,
	       count(*) FILTER (WHERE type = 'video')          AS videos,
	       count(*) FILTER (WHERE type = 'image')          AS images,
	       count(*) FILTER (WHERE type = 'text')           AS texts,
	       count(*) FILTER (WHERE type = 'youtube')        AS youtube,
	       count(*) FILTER (WHERE type = 'link')           AS links,
	       count(*) FILTER (WHERE active)                  AS active,
	       count(*) FILTER (WHERE NOT active)              AS inactive
	  FROM media;`
	if err := s.db.Get(&st, q); err != nil {
		log.Error().Err(err).Msg("MediaStats failed")
		return model.MediaStats{}, err
	}
	return st, nil
}
