// Package api implements the typed HTTP client for the ML Playground backend.
package api

// TokenPair is returned by a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SecretAnswer pairs a security question with its normalized answer.
type SecretAnswer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// SecretQuestion is a registered security question.
type SecretQuestion struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email           string         `json:"email"`
	Username        string         `json:"username"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Password        string         `json:"password"`
	ConfirmPassword string         `json:"confirm_password"`
	SecretAnswers   []SecretAnswer `json:"secret_answers"`
}

// ResetPasswordRequest carries the new credentials for a recovery flow.
type ResetPasswordRequest struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePasswordRequest updates the password of the authenticated user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Profile is the account entity owned by the backend.
type Profile struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	EmailVerified bool   `json:"email_verified"`
	DateJoined    string `json:"date_joined"`
	LastUpdated   string `json:"last_updated"`
}

// DatasetPreview is the backend-computed summary of an uploaded dataset.
type DatasetPreview struct {
	Data        []map[string]any             `json:"data"`
	Columns     []string                     `json:"columns"`
	ColumnTypes map[string]string            `json:"column_types"`
	Stats       map[string][]float64         `json:"stats"`
	Corr        map[string]map[string]float64 `json:"corr"`
}

// FeatureImportance reports per-feature weights from a trained model.
type FeatureImportance struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// AccuracyReport carries every metric the training endpoint may return.
// Classification fills accuracy/precision/recall/f1; regression fills
// r2 and the error metrics. Absent metrics decode to zero.
type AccuracyReport struct {
	AccuracyScore     float64            `json:"accuracy_score"`
	R2Score           float64            `json:"r2_score"`
	MeanSquaredError  float64            `json:"mean_squared_error"`
	MeanAbsoluteError float64            `json:"mean_absolute_error"`
	RootMeanSquared   float64            `json:"root_mean_squared_error"`
	Precision         float64            `json:"precision"`
	Recall            float64            `json:"recall"`
	F1Score           float64            `json:"f1_score"`
	FeatureImportance *FeatureImportance `json:"feature_importance"`
}

// ConfusionMatrix is the classification error breakdown.
type ConfusionMatrix struct {
	Matrix [][]int  `json:"matrix"`
	Labels []string `json:"labels"`
}

// TrainConfig echoes the submitted configuration in training responses.
type TrainConfig struct {
	Features    []string `json:"features"`
	TargetCol   string   `json:"target_column"`
	ProblemType string   `json:"problem_type"`
}

// TrainResult is the response of a training call. The cache keys reference
// server-side artifacts that a later save call persists.
type TrainResult struct {
	Name                  string           `json:"name"`
	Dataset               int              `json:"dataset"`
	ModelCacheKey         string           `json:"model_cache_key"`
	EncoderCacheKey       string           `json:"encoder_cache_key"`
	ScalerCacheKey        string           `json:"scaler_cache_key"`
	TargetEncoderCacheKey string           `json:"target_encoder_cache_key"`
	Accuracy              AccuracyReport   `json:"accuracy"`
	ConfusionMatrix       *ConfusionMatrix `json:"confusion_matrix"`
	Config                *TrainConfig     `json:"config"`
}

// SaveModelRequest persists a trained model by its cache keys.
type SaveModelRequest struct {
	Name                  string `json:"name"`
	ModelCacheKey         string `json:"model_cache_key"`
	EncoderCacheKey       string `json:"encoder_cache_key"`
	ScalerCacheKey        string `json:"scaler_cache_key"`
	TargetEncoderCacheKey string `json:"target_encoder_cache_key"`
	Dataset               int    `json:"dataset"`
	Config                string `json:"config"`
}

// SavedModel is one entry of the persisted model list.
type SavedModel struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Algorithm    string            `json:"algorithm"`
	ProblemType  string            `json:"problem_type"`
	Accuracy     float64           `json:"accuracy"`
	Features     []string          `json:"features"`
	FeatureTypes map[string]string `json:"feature_types"`
	TargetColumn string            `json:"target_column"`
	CreatedAt    string            `json:"created_at"`
}

// ModelDistribution splits saved models by problem type.
type ModelDistribution struct {
	Classification int `json:"classification"`
	Regression     int `json:"regression"`
}

// PerformanceBucket is one slice of the accuracy histogram.
type PerformanceBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// DashboardStats is the aggregate returned by the dashboard endpoint.
type DashboardStats struct {
	TotalModels             int                 `json:"total_models"`
	ActiveModels            int                 `json:"active_models"`
	AvgAccuracy             float64             `json:"avg_accuracy"`
	AvgTrainingTime         float64             `json:"avg_training_time"`
	RecentAvgAccuracy       float64             `json:"recent_avg_accuracy"`
	RecentAvgTrainingTime   float64             `json:"recent_avg_training_time"`
	ModelDistribution       ModelDistribution   `json:"model_distribution"`
	PerformanceDistribution []PerformanceBucket `json:"performance_distribution"`
}

// PredictRequest feeds recorded feature values to a saved model.
type PredictRequest struct {
	Inputs  map[string]string `json:"inputs"`
	Values  []string          `json:"values"`
	Columns []string          `json:"columns"`
}

// PredictResponse carries the model output as the backend formats it.
type PredictResponse struct {
	Prediction string `json:"prediction"`
}
