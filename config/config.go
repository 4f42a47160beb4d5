package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Nó chứa thông tin kết nối cơ sở dữ liệu và credential của OK API.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`      // Địa chỉ server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"` // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`         // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`     // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`      // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`    // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"` // Bật/tắt rate limiting

	// OK API Configuration
	// Credential theo scheme xác thực của api.ok.ru (fb.do). Cần ít nhất
	// client id/secret và một trong session key / access token.
	OkRu_ClientID         string `env:"OKRU_CLIENT_ID,required"`                            // Application ID
	OkRu_ClientSecret     string `env:"OKRU_CLIENT_SECRET,required"`                        // Application secret key
	OkRu_AccessToken      string `env:"OKRU_ACCESS_TOKEN"`                                  // Access token (vĩnh viễn hoặc ngắn hạn)
	OkRu_PublicKey        string `env:"OKRU_PUBLIC_KEY"`                                    // Application public key
	OkRu_SessionKey       string `env:"OKRU_SESSION_KEY"`                                   // Session key (ưu tiên hơn access token)
	OkRu_SessionSecretKey string `env:"OKRU_SESSION_SECRET_KEY"`                            // Session secret key (nếu có thì dùng trực tiếp làm secret)
	OkRu_APIBaseURL       string `env:"OKRU_API_BASE_URL" envDefault:"https://api.ok.ru/fb.do"` // Endpoint duy nhất của OK REST API
	OkRu_RateLimitDelayMs int    `env:"OKRU_RATE_LIMIT_DELAY_MS" envDefault:"1000"`         // Khoảng cách tối thiểu giữa 2 request outbound (ms)

	// Ingestion Configuration
	Ingest_MaxDiscussions        int  `env:"OKRU_MAX_DISCUSSIONS" envDefault:"0"`           // Giới hạn số discussion mỗi lần full parse (0 = không giới hạn)
	Ingest_CommentsPerDiscussion int  `env:"OKRU_COMMENTS_PER_DISCUSSION" envDefault:"100"` // Số comment lấy mỗi discussion (1..1000)
	Ingest_OwnGroupPostsOnly     bool `env:"OKRU_OWN_GROUP_POSTS_ONLY" envDefault:"false"`  // Chỉ ingest discussion do chính group đăng (owner_uid == gid)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
