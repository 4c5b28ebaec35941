package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wippyai/wasm-radix/loader"
	"github.com/wippyai/wasm-radix/radix"
)

// DefaultPrecision is used by /api/float-to-fraction when none is given.
const DefaultPrecision = 512

type decimalQuery struct {
	Value *float64 `query:"value" validate:"required"`
	Base  uint32   `query:"base" validate:"gte=2,lte=255"`
}

type numeralQuery struct {
	Value string `query:"value" validate:"required"`
	Base  uint32 `query:"base" validate:"gte=2,lte=255"`
}

type unitQuery struct {
	Numer int32  `query:"numer"`
	Denom int32  `query:"denom" validate:"ne=0"`
	Base  uint32 `query:"base" validate:"gte=2,lte=255"`
}

type fractionQuery struct {
	Value     *float64 `query:"value" validate:"required"`
	Precision int32    `query:"precision" validate:"gte=0,lte=65536"`
}

type exprQuery struct {
	Expr string `query:"expr" validate:"required"`
	Base uint32 `query:"base" validate:"omitempty,gte=2,lte=255"`
}

type ExportInfo struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	WIT       string `json:"wit,omitempty"`
}

func (s *Server) parse(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query: "+err.Error())
	}
	return s.validate.Struct(out)
}

func (s *Server) handleModule(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/wasm")
	return c.Send(s.module)
}

func (s *Server) handleExports(c *fiber.Ctx) error {
	if s.exports == nil {
		return fiber.NewError(fiber.StatusNotFound, "no module loaded")
	}

	infos := make([]ExportInfo, 0, s.exports.Len())
	for _, name := range s.exports.Names() {
		fn, _ := s.exports.Lookup(name)
		info := ExportInfo{Name: fn.Name, Signature: fn.Signature()}
		if spec, ok := loader.LookupSpec(name); ok {
			info.WIT = spec.WIT()
		}
		infos = append(infos, info)
	}
	return c.JSON(Success(infos))
}

func (s *Server) handleDecimalToRadix(c *fiber.Ctx) error {
	var q decimalQuery
	if err := s.parse(c, &q); err != nil {
		return err
	}
	text, err := s.conv.DecimalToRadix(c.UserContext(), *q.Value, q.Base)
	if err != nil {
		return err
	}
	return c.JSON(Success(fiber.Map{"value": *q.Value, "base": q.Base, "text": text}))
}

func (s *Server) handleRadixToDecimal(c *fiber.Ctx) error {
	var q numeralQuery
	if err := s.parse(c, &q); err != nil {
		return err
	}
	value, err := s.conv.RadixToDecimal(c.UserContext(), q.Value, q.Base)
	if err != nil {
		return err
	}
	return c.JSON(Success(fiber.Map{"text": q.Value, "base": q.Base, "value": value}))
}

func (s *Server) handleFractionToUnit(c *fiber.Ctx) error {
	var q unitQuery
	if err := s.parse(c, &q); err != nil {
		return err
	}
	text, err := s.conv.FractionToUnit(c.UserContext(), q.Numer, q.Denom, q.Base)
	if err != nil {
		return err
	}
	return c.JSON(Success(fiber.Map{"numer": q.Numer, "denom": q.Denom, "base": q.Base, "text": text}))
}

func (s *Server) handleRadixFractionToRadix(c *fiber.Ctx) error {
	var q numeralQuery
	if err := s.parse(c, &q); err != nil {
		return err
	}
	ns, err := s.conv.RadixFractionToRadix(c.UserContext(), q.Value, q.Base)
	if err != nil {
		return err
	}
	return c.JSON(Success(fiber.Map{"fraction": q.Value, "base": q.Base, "value": ns.AsFloat(), "text": ns.AsString()}))
}

func (s *Server) handleFloatToFraction(c *fiber.Ctx) error {
	var q fractionQuery
	if err := s.parse(c, &q); err != nil {
		return err
	}
	if q.Precision == 0 {
		q.Precision = DefaultPrecision
	}
	f, err := s.conv.FloatToFraction(c.UserContext(), *q.Value, q.Precision)
	if err != nil {
		return err
	}
	return c.JSON(Success(fiber.Map{
		"value":      *q.Value,
		"precision":  q.Precision,
		"numer":      f.Numerator(),
		"denom":      f.Denominator(),
		"difference": f.Difference(),
	}))
}

// handleExpr evaluates natively and renders through the converter.
func (s *Server) handleExpr(c *fiber.Ctx) error {
	var q exprQuery
	if err := s.parse(c, &q); err != nil {
		return err
	}
	value, err := radix.ExprToFloat(q.Expr)
	if err != nil {
		return err
	}
	data := fiber.Map{"expr": q.Expr, "value": value}
	if q.Base != 0 {
		text, err := s.conv.DecimalToRadix(c.UserContext(), value, q.Base)
		if err != nil {
			return err
		}
		data["base"] = q.Base
		data["text"] = text
	}
	return c.JSON(Success(data))
}

func (s *Server) handleRational(c *fiber.Ctx) error {
	var q exprQuery
	if err := s.parse(c, &q); err != nil {
		return err
	}
	r, err := radix.FracExprToRational(q.Expr)
	if err != nil {
		return err
	}
	return c.JSON(Success(r))
}
