package config

type Config struct {
	Browser struct {
		Backend string `json:"backend"`
	} `json:"browser"`

	Elasticsearch struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Address  string `json:"address"`
		Index    string `json:"index"`
	} `json:"elasticsearch"`

	Chromedp struct {
		LifeTime             int    `json:"life_time"`
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		WindowSize           string `json:"window_size"`
		UserAgent            string `json:"user_agent"`
		BodyFetchConcurrency int    `json:"body_fetch_concurrency"`
	} `json:"chromedp"`

	Rod struct {
		Headless  bool   `json:"headless"`
		NoSandbox bool   `json:"no_sandbox"`
		Bin       string `json:"bin"`
	} `json:"rod"`

	Fetcher struct {
		UserAgent      string `json:"user_agent"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"fetcher"`

	LLM struct {
		Host  string `json:"host"`
		Port  int    `json:"port"`
		Model string `json:"model"`
	} `json:"llm"`

	Audit struct {
		DomainsFile          string `json:"domains_file"`
		MinResponses         int    `json:"min_responses"`
		TrafficWaitSeconds   int    `json:"traffic_wait_seconds"`
		ConsentSettleSeconds int    `json:"consent_settle_seconds"`
	} `json:"audit"`
}
