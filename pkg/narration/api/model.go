package api

// ----------------------------------------------------------------------
// データモデル (API要求・応答)
// ----------------------------------------------------------------------

// SynthesisRequest は合成APIへのリクエストボディです。
type SynthesisRequest struct {
	Text         string `json:"text"`
	Preset       string `json:"preset_voice,omitempty"`
	Voice        string `json:"voice,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

// SynthesisResponse はJSON形式で返される合成APIの応答です。
// Audio は base64 文字列、または "data:audio/wav;base64,..." 形式のdata URLです。
type SynthesisResponse struct {
	Audio           string           `json:"audio"`
	InferenceStatus *InferenceStatus `json:"inference_status,omitempty"`
}

// InferenceStatus は推論処理の状態です。
type InferenceStatus struct {
	Status    string `json:"status"`
	RuntimeMs int    `json:"runtime_ms"`
}
