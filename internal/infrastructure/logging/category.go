package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	ExternalService SubCategory = "ExternalService"

	// Domain
	Authorization SubCategory = "Authorization"
	Membership    SubCategory = "Membership"
	Moderation    SubCategory = "Moderation"
	Content       SubCategory = "Content"

	// Infrastructure
	Persistence SubCategory = "Persistence"
	MediaUpload SubCategory = "MediaUpload"
	Eventing    SubCategory = "Eventing"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RoomID       ExtraKey = "RoomID"
	UserID       ExtraKey = "UserID"
	ErrorMessage ExtraKey = "ErrorMessage"
)
