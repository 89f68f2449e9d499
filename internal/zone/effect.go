package zone

// Effect - реакция другой подсистемы (анимации, журнал) на событие.
// Reduce только возвращает эффекты, применяет их движок зоны.
type Effect interface {
	isEffect()
}

// PopDuration - длительность pop-анимации в кадрах.
const PopDuration = 30

type SpawnPopAnimation struct {
	TileID         string
	Row            int32
	Col            int32
	ExpiresAtFrame int64
}

// SpawnDropAnimation - предмет положен на клетку. Tile выбирается по классам.
type SpawnDropAnimation struct {
	Classes []string
	Row     int32
	Col     int32
}

type LogLevel int

const (
	LogInfo LogLevel = iota
	LogError
)

func (l LogLevel) String() string {
	if l == LogError {
		return "ERROR"
	}
	return "INFO"
}

// UserLog - строка журнала, видимая игроку.
type UserLog struct {
	Level   LogLevel
	Message string
}

func InfoLog(message string) UserLog  { return UserLog{Level: LogInfo, Message: message} }
func ErrorLog(message string) UserLog { return UserLog{Level: LogError, Message: message} }

// BlinkIcons - иконки сводки, которые должны замигать.
type BlinkIcons struct {
	Icons []ResumeIcon
}

// CloseAllowed - сервер разрешил закрыть канал.
type CloseAllowed struct{}

func (SpawnPopAnimation) isEffect()  {}
func (SpawnDropAnimation) isEffect() {}
func (UserLog) isEffect()            {}
func (BlinkIcons) isEffect()         {}
func (CloseAllowed) isEffect()       {}
