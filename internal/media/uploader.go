// Package media реализует последовательную загрузку медиафайлов.
//
// Загрузки намеренно сериализованы: очередной файл уходит только после
// завершения предыдущего, чтобы порядок в итоговых списках совпадал с
// порядком выбора файлов. Конкурентной отправки нет даже для
// независимых файлов.
package media

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Concierge/internal/wpcom"
)

// transientDateOffset — смещение даты transient-элемента в будущее,
// чтобы первый загруженный файл не становился самым новым в наборе,
// когда загрузка завершится.
const transientDateOffset = 365 * 24 * time.Hour

// File — один файл для загрузки.
type File struct {
	// Title — заголовок медиафайла.
	Title string

	// GUID — идентификатор файла во внешнем сервисе
	// (Google Photos, Pexels).
	GUID string

	// URL — адрес файла для загрузки по URL.
	URL string
}

// Result — исход загрузки одного файла.
type Result struct {
	// File — исходный файл.
	File File

	// Item — элемент медиатеки после успешной загрузки.
	Item *wpcom.MediaItem

	// Err — ошибка загрузки этого файла. Ошибка одного файла не
	// прерывает загрузку остальных.
	Err error
}

// Uploader последовательно загружает файлы на сайт.
type Uploader struct {
	client wpcom.Client
	logger *slog.Logger

	// now подменяется в тестах.
	now func() time.Time
}

// NewUploader создаёт Uploader.
func NewUploader(client wpcom.Client, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{client: client, logger: logger, now: time.Now}
}

// uploadFunc отправляет один файл.
type uploadFunc func(ctx context.Context, file File, date time.Time) (*wpcom.MediaListResponse, error)

// Add загружает файлы в медиатеку сайта.
func (u *Uploader) Add(ctx context.Context, siteID int, files []File) []Result {
	return u.uploadSeries(ctx, files, func(ctx context.Context, file File, date time.Time) (*wpcom.MediaListResponse, error) {
		return u.client.MediaAdd(ctx, siteID, &wpcom.MediaItem{
			Title: file.Title,
			URL:   file.URL,
			Date:  date.UTC().Format(time.RFC3339Nano),
		})
	})
}

// AddExternal копирует файлы из внешнего сервиса в медиатеку сайта.
func (u *Uploader) AddExternal(ctx context.Context, siteID int, service string, files []File) []Result {
	return u.uploadSeries(ctx, files, func(ctx context.Context, file File, _ time.Time) (*wpcom.MediaListResponse, error) {
		return u.client.UploadExternalMedia(ctx, siteID, service, []string{file.GUID})
	})
}

// uploadSeries — общий последовательный цикл загрузки. Датам
// присваиваются значения так, что первый файл — самый старый.
func (u *Uploader) uploadSeries(ctx context.Context, files []File, upload uploadFunc) []Result {
	baseTime := u.now().Add(transientDateOffset)

	results := make([]Result, 0, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{File: file, Err: err})
			continue
		}

		date := baseTime.Add(-time.Duration(len(files)-i) * time.Millisecond)

		resp, err := upload(ctx, file, date)
		if err != nil {
			u.logger.Warn("media upload failed", "title", file.Title, "error", err)
			results = append(results, Result{File: file, Err: err})
			continue
		}

		result := Result{File: file}
		if len(resp.Media) > 0 {
			item := resp.Media[0]
			result.Item = &item
		}
		results = append(results, result)
	}
	return results
}
