package fetch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// decodeParquet reads a complete parquet payload into a RawTable, converting
// each leaf value to a plain Go type. Timestamp columns (logical INT64
// timestamps and legacy INT96) become time.Time in UTC; nulls become nil.
func decodeParquet(data []byte) (*domain.RawTable, error) {
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	fields := file.Schema().Fields()
	columns := make([]string, 0, len(fields))
	decoders := make([]valueDecoder, 0, len(fields))
	for _, fld := range fields {
		if !fld.Leaf() {
			return nil, fmt.Errorf("unsupported nested column %q", fld.Name())
		}
		columns = append(columns, fld.Name())
		decoders = append(decoders, newValueDecoder(fld.Type()))
	}

	table := &domain.RawTable{Columns: columns}
	for _, rowGroup := range file.RowGroups() {
		if err := readRowGroup(table, rowGroup, decoders); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func readRowGroup(table *domain.RawTable, rowGroup parquet.RowGroup, decoders []valueDecoder) error {
	rows := rowGroup.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, 256)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			rec := make([]any, len(table.Columns))
			for _, v := range row {
				if col := v.Column(); col >= 0 && col < len(rec) {
					rec[col] = decoders[col](v)
				}
			}
			table.Rows = append(table.Rows, rec)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read parquet rows: %w", err)
		}
	}
}

// valueDecoder converts one parquet leaf value into a plain Go value.
type valueDecoder func(parquet.Value) any

// newValueDecoder builds the converter for one leaf column based on its
// physical and logical type. The decoder returns nil for null values.
func newValueDecoder(typ parquet.Type) valueDecoder {
	if lt := typ.LogicalType(); lt != nil {
		switch {
		case lt.Timestamp != nil:
			unit := lt.Timestamp.Unit
			return func(v parquet.Value) any {
				if v.IsNull() {
					return nil
				}
				n := v.Int64()
				switch {
				case unit.Millis != nil:
					return time.UnixMilli(n).UTC()
				case unit.Nanos != nil:
					return time.Unix(0, n).UTC()
				default:
					return time.UnixMicro(n).UTC()
				}
			}
		case lt.Date != nil:
			return func(v parquet.Value) any {
				if v.IsNull() {
					return nil
				}
				return time.Unix(int64(v.Int32())*86400, 0).UTC()
			}
		}
	}

	switch typ.Kind() {
	case parquet.Boolean:
		return func(v parquet.Value) any {
			if v.IsNull() {
				return nil
			}
			return v.Boolean()
		}
	case parquet.Int32:
		return func(v parquet.Value) any {
			if v.IsNull() {
				return nil
			}
			return int64(v.Int32())
		}
	case parquet.Int64:
		return func(v parquet.Value) any {
			if v.IsNull() {
				return nil
			}
			return v.Int64()
		}
	case parquet.Int96:
		return decodeInt96
	case parquet.Float:
		return func(v parquet.Value) any {
			if v.IsNull() {
				return nil
			}
			return float64(v.Float())
		}
	case parquet.Double:
		return func(v parquet.Value) any {
			if v.IsNull() {
				return nil
			}
			return v.Double()
		}
	default:
		return func(v parquet.Value) any {
			if v.IsNull() {
				return nil
			}
			return string(v.ByteArray())
		}
	}
}

// julianUnixEpoch is the Julian day number of 1970-01-01.
const julianUnixEpoch = 2440588

// decodeInt96 converts a legacy INT96 timestamp (nanoseconds of day in the
// low 8 bytes, Julian day number in the high 4) to time.Time. Pre-2019 TLC
// files use this encoding.
func decodeInt96(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	i96 := v.Int96()
	nanos := int64(uint64(i96[0]) | uint64(i96[1])<<32)
	days := int64(i96[2]) - julianUnixEpoch
	return time.Unix(days*86400, nanos).UTC()
}
