package gemini

// Status categories, selected by the tens digit of the status code.
const (
	CategoryInput        = 1
	CategorySuccess      = 2
	CategoryRedirect     = 3
	CategoryTempFailure  = 4
	CategoryPermFailure  = 5
	CategoryCertRequired = 6
)

// Response is the immutable result of one request/response exchange.
// Body is non-nil exactly when the status category is success.
type Response struct {
	Status int
	Meta   string
	Body   []byte
}

func (r *Response) Category() int {
	return r.Status / 10
}

func (r *Response) IsInput() bool {
	return r.Category() == CategoryInput
}

func (r *Response) IsSuccess() bool {
	return r.Category() == CategorySuccess
}

func (r *Response) IsRedirect() bool {
	return r.Category() == CategoryRedirect
}

// MediaType returns the media type a success response should be
// interpreted as. An empty meta on success means text/gemini.
func (r *Response) MediaType() string {
	if r.Meta == "" {
		return "text/gemini"
	}
	return r.Meta
}
