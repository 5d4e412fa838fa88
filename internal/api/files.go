package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DatasetPreview uploads the dataset and returns the backend-computed
// preview rows, column types, stats, and correlation matrix.
func (c *Client) DatasetPreview(ctx context.Context, datasetPath string, rowCount int) (DatasetPreview, error) {
	file, err := os.Open(datasetPath)
	if err != nil {
		return DatasetPreview{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	fields := map[string]string{"row_count": strconv.Itoa(rowCount)}
	var preview DatasetPreview
	err = c.postMultipart(ctx, "/file/dataset-preview/", fields, "dataset", filepath.Base(datasetPath), file, false, &preview)
	if err != nil {
		return DatasetPreview{}, err
	}
	return preview, nil
}

// Train submits the dataset with a serialized training configuration.
func (c *Client) Train(ctx context.Context, datasetPath, name, configJSON string) (TrainResult, error) {
	file, err := os.Open(datasetPath)
	if err != nil {
		return TrainResult{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	fields := map[string]string{
		"name":   name,
		"config": configJSON,
	}
	var result TrainResult
	err = c.postMultipart(ctx, "/file/train/", fields, "dataset", filepath.Base(datasetPath), file, true, &result)
	if err != nil {
		return TrainResult{}, err
	}
	return result, nil
}

// SaveModel persists the cache keys of a training run.
func (c *Client) SaveModel(ctx context.Context, req SaveModelRequest) error {
	return c.postJSON(ctx, "/file/save/", req, true, nil)
}

// SavedModels lists the persisted models of the logged-in user.
func (c *Client) SavedModels(ctx context.Context) ([]SavedModel, error) {
	var models []SavedModel
	if err := c.getJSON(ctx, "/file/save/", true, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// DashboardStats fetches the aggregated metrics panel data.
func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := c.getJSON(ctx, "/file/dashboard-stats/", true, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// DeleteModel removes a saved model.
func (c *Client) DeleteModel(ctx context.Context, id int) error {
	return c.delete(ctx, "/file/saved-model/"+strconv.Itoa(id)+"/", true)
}

// Predict runs a saved model against the provided feature values.
func (c *Client) Predict(ctx context.Context, id int, req PredictRequest) (string, error) {
	var resp PredictResponse
	if err := c.postJSON(ctx, "/file/predict/"+strconv.Itoa(id)+"/", req, true, &resp); err != nil {
		return "", err
	}
	return resp.Prediction, nil
}

// DownloadModel streams the model archive into destDir, writing through a
// temp file so a failed download never leaves a partial archive behind.
// It returns the path of the written file.
func (c *Client) DownloadModel(ctx context.Context, id int, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(destDir, "model-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	name, err := c.downloadToWriter(ctx, "/file/download-model/"+strconv.Itoa(id)+"/", tmpFile)
	if err != nil {
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close download: %w", err)
	}
	if name == "" {
		name = fmt.Sprintf("model_%d.zip", id)
	}
	destPath := filepath.Join(destDir, name)
	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", fmt.Errorf("failed to move download: %w", err)
	}
	return destPath, nil
}
