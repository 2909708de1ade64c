package health

// Input is empty, the probe carries no parameters.
type Input struct{}

// Output wraps the probe response body.
type Output struct {
	Body Status
}

// Status is what client connectivity monitors read. They only care
// about the 200, the body is for humans curl-ing the endpoint.
type Status struct {
	Status  string `json:"status" example:"OK" doc:"Service availability"`
	Service string `json:"service" example:"starbook" doc:"Responding service name"`
}
