package api

import (
	"strconv"

	"lendloop/internal/pkg/errs"
	"lendloop/internal/pkg/paging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errBadID        = errs.Mark(errs.New("invalid id format"), errs.ErrInvalidArgument)
	errBadIntParam  = errs.Mark(errs.New("query parameter must be an integer"), errs.ErrInvalidArgument)
	errBadBoolParam = errs.Mark(errs.New("query parameter must be a boolean"), errs.ErrInvalidArgument)
)

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}

// pageParams parses the optional from/size pair. Presence and joint
// validation are the paging package's concern; this only deals with syntax.
func pageParams(c *gin.Context) (paging.PageRequest, error) {
	from, err := intQueryPtr(c, "from")
	if err != nil {
		return paging.PageRequest{}, err
	}
	size, err := intQueryPtr(c, "size")
	if err != nil {
		return paging.PageRequest{}, err
	}
	return paging.New(from, size, paging.Sort{})
}

func intQueryPtr(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errBadIntParam
	}
	return &v, nil
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	v, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return false, errBadBoolParam
	}
	return v, nil
}
